// Package notification carries confirmation requests from the linking engine
// to the owning user: the server enqueues them on Kafka, the worker consumes
// and delivers them by email.
package notification

import "time"

// ConfirmationMessage is the queued payload for one confirmation request.
type ConfirmationMessage struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Provider     string    `json:"provider"`
	ConfirmToken string    `json:"confirm_token"`
	ConfirmURL   string    `json:"confirm_url"`
	RequestedAt  time.Time `json:"requested_at"`
}
