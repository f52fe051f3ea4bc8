package domain

import "time"

// SocialIdentity is the persisted link between a local user and one external
// OAuth identity for one provider. Token fields hold the provider's current
// access/refresh material; confirm fields drive the confirmation workflow.
type SocialIdentity struct {
	ID           string
	UserID       string
	Provider     string
	Reference    string // provider-side stable subject identifier
	AccessToken  string // empty when invalidated
	ExpiresAt    *time.Time
	RefreshToken string
	ConfirmToken string // empty once confirmed or never pending
	ConfirmUntil *time.Time
	ConfirmedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Pending reports whether the identity is still awaiting confirmation.
func (s *SocialIdentity) Pending() bool {
	return s.ConfirmedAt == nil
}

// Confirmed reports whether the identity has been confirmed by its owner.
func (s *SocialIdentity) Confirmed() bool {
	return s.ConfirmedAt != nil
}

// PastConfirmationDeadline reports whether the confirmation window has closed.
// A missing deadline counts as already past: an unconfirmed link must never
// stay confirmable forever.
func (s *SocialIdentity) PastConfirmationDeadline(now time.Time) bool {
	if s.ConfirmUntil == nil {
		return true
	}
	return s.ConfirmUntil.Before(now)
}

// AccessTokenIsExpired reports whether the stored access token needs a refresh.
// A missing expiry counts as expired.
func (s *SocialIdentity) AccessTokenIsExpired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return true
	}
	return s.ExpiresAt.Before(now)
}
