package models

import "testing"

func TestValidDealStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{DealStatusNewInquiry, true},
		{DealStatusContacting, true},
		{DealStatusViewingScheduled, true},
		{DealStatusViewingDone, true},
		{DealStatusApplication, true},
		{DealStatusContracted, true},
		{DealStatusLost, true},
		{"", false},
		{"negotiating", false},
		{"Contracted", false},
	}
	for _, tt := range tests {
		if got := ValidDealStatus(tt.status); got != tt.want {
			t.Errorf("ValidDealStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIsTerminalDealStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{DealStatusContracted, true},
		{DealStatusLost, true},
		{DealStatusNewInquiry, false},
		{DealStatusApplication, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTerminalDealStatus(tt.status); got != tt.want {
			t.Errorf("IsTerminalDealStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDealStatusLabel(t *testing.T) {
	if got := DealStatusLabel(DealStatusViewingScheduled); got != "Viewing Scheduled" {
		t.Errorf("label = %q", got)
	}
	// Unknown statuses fall back to the raw value
	if got := DealStatusLabel("mystery"); got != "mystery" {
		t.Errorf("fallback label = %q", got)
	}
}

func TestValidInquiryStatus(t *testing.T) {
	for _, s := range []string{InquiryStatusActive, InquiryStatusOnHold, InquiryStatusClosed} {
		if !ValidInquiryStatus(s) {
			t.Errorf("ValidInquiryStatus(%q) = false", s)
		}
	}
	if ValidInquiryStatus("open") {
		t.Error("ValidInquiryStatus(\"open\") = true")
	}
}

func TestCanSeeAllInquiries(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleSystemAdmin, true},
		{RoleTenantAdmin, true},
		{RoleTenantUser, false},
		{"", false},
	}
	for _, tt := range tests {
		u := User{Role: tt.role}
		if got := u.CanSeeAllInquiries(); got != tt.want {
			t.Errorf("CanSeeAllInquiries() with role %q = %v, want %v", tt.role, got, tt.want)
		}
	}
}
