package app

import (
	"chintai/internal/auth"
	"chintai/internal/repo"
	"chintai/internal/services"

	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB                  *gorm.DB
	Auth                *auth.Service
	UserRepo            *repo.UserRepository
	TenantRepo          *repo.TenantRepository
	CustomerRepo        *repo.CustomerRepository
	RoomRepo            *repo.RoomRepository
	InquiryRepo         *repo.InquiryRepository
	PropertyInquiryRepo *repo.PropertyInquiryRepository
	ActivityRepo        *repo.ActivityRepository
	ReadStatusRepo      *repo.ReadStatusRepository
	Pipeline            *services.PipelineService
	Unread              *services.UnreadService
	Intake              *services.IntakeService
}

// NewServices creates a new services container
func NewServices(db *gorm.DB) *Services {
	// Initialize repositories
	userRepo := repo.NewUserRepository(db)
	tenantRepo := repo.NewTenantRepository(db)
	customerRepo := repo.NewCustomerRepository(db)
	roomRepo := repo.NewRoomRepository(db)
	inquiryRepo := repo.NewInquiryRepository(db)
	piRepo := repo.NewPropertyInquiryRepository(db)
	activityRepo := repo.NewActivityRepository(db)
	readStatusRepo := repo.NewReadStatusRepository(db)

	// Initialize services
	authService := auth.NewService(userRepo)
	pipeline := services.NewPipelineService(db)
	unread := services.NewUnreadService(db, readStatusRepo)
	intake := services.NewIntakeService(db, pipeline)

	return &Services{
		DB:                  db,
		Auth:                authService,
		UserRepo:            userRepo,
		TenantRepo:          tenantRepo,
		CustomerRepo:        customerRepo,
		RoomRepo:            roomRepo,
		InquiryRepo:         inquiryRepo,
		PropertyInquiryRepo: piRepo,
		ActivityRepo:        activityRepo,
		ReadStatusRepo:      readStatusRepo,
		Pipeline:            pipeline,
		Unread:              unread,
		Intake:              intake,
	}
}
