package domain

import (
	"testing"
	"time"
)

func TestPastConfirmationDeadline(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(30 * time.Minute)

	testCases := []struct {
		name         string
		confirmUntil *time.Time
		want         bool
	}{
		{"nil deadline counts as past", nil, true},
		{"deadline in the past", &past, true},
		{"deadline in the future", &future, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &SocialIdentity{ConfirmUntil: tc.confirmUntil}
			if got := s.PastConfirmationDeadline(now); got != tc.want {
				t.Errorf("PastConfirmationDeadline = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAccessTokenIsExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	testCases := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"nil expiry counts as expired", nil, true},
		{"expiry in the past", &past, true},
		{"expiry in the future", &future, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &SocialIdentity{ExpiresAt: tc.expiresAt}
			if got := s.AccessTokenIsExpired(now); got != tc.want {
				t.Errorf("AccessTokenIsExpired = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPendingAndConfirmed(t *testing.T) {
	s := &SocialIdentity{}
	if !s.Pending() {
		t.Error("identity without confirmed_at should be pending")
	}
	if s.Confirmed() {
		t.Error("identity without confirmed_at should not be confirmed")
	}

	at := time.Now().UTC()
	s.ConfirmedAt = &at
	if s.Pending() {
		t.Error("confirmed identity should not be pending")
	}
	if !s.Confirmed() {
		t.Error("confirmed identity should be confirmed")
	}
}
