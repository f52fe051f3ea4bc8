package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUser is returned when no local user could be resolved from the
	// external identity and user creation is disabled or impossible.
	ErrNoUser = errors.New("no user could be resolved or created")

	// ErrIdentityAlreadyLinkedToCurrentUser is returned when the presented
	// identity is already linked to the authenticated user.
	ErrIdentityAlreadyLinkedToCurrentUser = errors.New("identity already linked to current user")

	// ErrUnableToConfirm is returned when a confirmation token matches no
	// pending link or the link's confirmation window has closed.
	ErrUnableToConfirm = errors.New("unable to confirm identity link")

	// ErrIdentityLinked signals that the identity was associated directly to
	// the authenticated user instead of going through registration. The link
	// is persisted before this is returned.
	ErrIdentityLinked = errors.New("identity linked to authenticated user")
)

// IdentityAlreadyAssociatedError is returned when the presented identity is
// already associated with a different user's account.
type IdentityAlreadyAssociatedError struct {
	// ProviderDisplayName is the human-readable provider name for messaging.
	ProviderDisplayName string
}

func (e *IdentityAlreadyAssociatedError) Error() string {
	return fmt.Sprintf("this %s identity is already associated with another account", e.ProviderDisplayName)
}
