package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	identitydomain "social-link-service/internal/identity/domain"
	identityrepo "social-link-service/internal/identity/repository"
	"social-link-service/internal/provider"
	"social-link-service/internal/security"
	"social-link-service/internal/session"
	userdomain "social-link-service/internal/user/domain"
)

// DefaultConfirmWindow is how long a newly created link stays confirmable.
const DefaultConfirmWindow = 30 * time.Minute

// UserDirectory resolves local users from provider-reported attributes.
// Both resolution methods return (nil, nil) when no user can be produced.
type UserDirectory interface {
	RetrieveByExternalIdentity(ctx context.Context, email string) (*userdomain.User, error)
	CreateFromExternalIdentity(ctx context.Context, email, name string) (*userdomain.User, error)
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// Notifier delivers a confirmation request for a pending identity link to its
// owning user.
type Notifier interface {
	SendConfirmation(ctx context.Context, user *userdomain.User, identity *identitydomain.SocialIdentity) error
}

// Options control the linking engine's association and confirmation policy.
type Options struct {
	// CanAssociateToLoggedInUser allows linking a new identity directly to the
	// authenticated user without matching on email.
	CanAssociateToLoggedInUser bool
	// ConfirmIdentityForNewUser requires confirmation even when the user
	// account was created during this registration. When false, links for
	// freshly created users are confirmed and logged in immediately.
	ConfirmIdentityForNewUser bool
	// LoginAfterConfirm logs the owning user in when a link is confirmed by
	// token.
	LoginAfterConfirm bool
	// ConfirmWindow overrides DefaultConfirmWindow when positive.
	ConfirmWindow time.Duration
}

// LinkingService decides how an external OAuth identity maps onto a local
// account: authenticating confirmed links, registering new ones, and running
// the confirmation workflow.
type LinkingService struct {
	identities identityrepo.Repository
	users      UserDirectory
	registry   *provider.Registry
	notifier   Notifier
	opts       Options
	now        func() time.Time
}

// NewLinkingService wires the linking engine with its collaborators.
func NewLinkingService(identities identityrepo.Repository, users UserDirectory, registry *provider.Registry, notifier Notifier, opts Options) *LinkingService {
	if opts.ConfirmWindow <= 0 {
		opts.ConfirmWindow = DefaultConfirmWindow
	}
	return &LinkingService{
		identities: identities,
		users:      users,
		registry:   registry,
		notifier:   notifier,
		opts:       opts,
		now:        time.Now,
	}
}

// CheckProvider returns ErrUnknownProvider if name is not a configured provider.
func (s *LinkingService) CheckProvider(name string) error {
	_, err := s.registry.Get(name)
	return err
}

// Provider returns the config for the named provider, or ErrUnknownProvider.
func (s *LinkingService) Provider(name string) (provider.Config, error) {
	d, err := s.registry.Get(name)
	if err != nil {
		return provider.Config{}, err
	}
	return d.Config(), nil
}

// Providers lists all configured provider configs.
func (s *LinkingService) Providers() []provider.Config {
	return s.registry.Configs()
}

// Authenticate logs the session in through a confirmed identity matching the
// presented external identity. It returns false when the session is already
// authenticated or when no confirmed match exists; in the latter case callers
// should fall through to Register. On success the stored token fields are
// refreshed from the presented identity so they stay current across re-logins.
func (s *LinkingService) Authenticate(ctx context.Context, sess *session.Session, providerName string, ext *provider.ExternalIdentity) (bool, error) {
	if err := s.CheckProvider(providerName); err != nil {
		return false, err
	}
	if sess.IsAuthenticated() {
		return false, nil
	}

	identity, err := s.identities.GetConfirmedByProviderReference(ctx, providerName, ext.SubjectID)
	if err != nil {
		return false, err
	}
	if identity == nil {
		return false, nil
	}

	identity, err = s.identities.UpdateTokens(ctx, identity.ID, ext.AccessToken, ext.ExpiresAt, ext.RefreshToken)
	if err != nil {
		return false, err
	}
	if identity == nil {
		return false, nil
	}
	sess.Login(identity.UserID)
	return true, nil
}

// Register creates an identity link for the presented external identity.
//
// A collision guard runs before any user resolution: when the session is
// authenticated and a confirmed or still-confirmable link already exists for
// the same provider subject, registration is rejected without writing:
// ErrIdentityAlreadyLinkedToCurrentUser when the current user owns it,
// IdentityAlreadyAssociatedError otherwise. When direct association is
// enabled, the link is created under the authenticated user and
// ErrIdentityLinked is returned alongside it.
//
// Otherwise the user directory resolves or creates the owning account and a
// pending link is created. When the account was created here and confirmation
// for new users is disabled, the link is confirmed and the session logged in
// immediately; otherwise a confirmation notification is enqueued.
func (s *LinkingService) Register(ctx context.Context, sess *session.Session, providerName string, ext *provider.ExternalIdentity) (*identitydomain.SocialIdentity, error) {
	cfg, err := s.Provider(providerName)
	if err != nil {
		return nil, err
	}

	if sess.IsAuthenticated() {
		possible, err := s.identities.GetPossibleByProviderReference(ctx, providerName, ext.SubjectID, s.now())
		if err != nil {
			return nil, err
		}
		if possible != nil {
			if possible.UserID == sess.UserID() {
				return nil, ErrIdentityAlreadyLinkedToCurrentUser
			}
			return nil, &IdentityAlreadyAssociatedError{ProviderDisplayName: cfg.DisplayName}
		}
		if s.opts.CanAssociateToLoggedInUser {
			user, err := s.users.GetByID(ctx, sess.UserID())
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, ErrNoUser
			}
			identity, err := s.CreateLink(ctx, providerName, user, ext)
			if err != nil {
				return nil, err
			}
			s.askUserToConfirmAsync(ctx, identity)
			return identity, ErrIdentityLinked
		}
	}

	user, err := s.users.RetrieveByExternalIdentity(ctx, ext.Email)
	if err != nil {
		return nil, err
	}
	created := false
	if user == nil {
		user, err = s.users.CreateFromExternalIdentity(ctx, ext.Email, ext.Name)
		if err != nil {
			return nil, err
		}
		created = user != nil
	}
	if user == nil {
		return nil, ErrNoUser
	}

	identity, err := s.CreateLink(ctx, providerName, user, ext)
	if err != nil {
		return nil, err
	}

	if created && !s.opts.ConfirmIdentityForNewUser {
		identity, err = s.Confirm(ctx, identity)
		if err != nil {
			return nil, err
		}
		sess.Login(user.ID)
		return identity, nil
	}

	s.askUserToConfirmAsync(ctx, identity)
	return identity, nil
}

// CreateLink returns the link between user and provider, creating it when
// missing. An existing link still inside its confirmation window is returned
// unchanged; one past its window is deleted and replaced with a fresh pending
// link carrying a new confirmation token and deadline.
func (s *LinkingService) CreateLink(ctx context.Context, providerName string, user *userdomain.User, ext *provider.ExternalIdentity) (*identitydomain.SocialIdentity, error) {
	existing, err := s.identities.GetByUserAndProvider(ctx, user.ID, providerName)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if existing != nil {
		if !existing.PastConfirmationDeadline(now) {
			return existing, nil
		}
		if err := s.identities.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	confirmToken, err := security.GenerateConfirmationToken()
	if err != nil {
		return nil, err
	}
	confirmUntil := now.Add(s.opts.ConfirmWindow)
	identity := &identitydomain.SocialIdentity{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Provider:     providerName,
		Reference:    ext.SubjectID,
		AccessToken:  ext.AccessToken,
		ExpiresAt:    ext.ExpiresAt,
		RefreshToken: ext.RefreshToken,
		ConfirmToken: confirmToken,
		ConfirmUntil: &confirmUntil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// ConfirmByToken redeems a confirmation token. It returns ErrUnableToConfirm
// when no pending link carries the token or the link's window has closed.
// When login-after-confirm is enabled, the session is logged in as the owner.
func (s *LinkingService) ConfirmByToken(ctx context.Context, sess *session.Session, token string) (*identitydomain.SocialIdentity, error) {
	identity, err := s.identities.GetByConfirmToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, ErrUnableToConfirm
	}
	identity, err = s.Confirm(ctx, identity)
	if err != nil {
		return nil, err
	}
	if s.opts.LoginAfterConfirm {
		sess.Login(identity.UserID)
	}
	return identity, nil
}

// Confirm marks the link confirmed. It returns ErrUnableToConfirm when the
// confirmation window has already closed, even for a matching token.
func (s *LinkingService) Confirm(ctx context.Context, identity *identitydomain.SocialIdentity) (*identitydomain.SocialIdentity, error) {
	if identity.PastConfirmationDeadline(s.now()) {
		return nil, ErrUnableToConfirm
	}
	confirmed, err := s.identities.Confirm(ctx, identity.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if confirmed == nil {
		return nil, ErrUnableToConfirm
	}
	return confirmed, nil
}

// AskUserToConfirm enqueues a confirmation notification carrying the link's
// confirmation token to the owning user.
func (s *LinkingService) AskUserToConfirm(ctx context.Context, identity *identitydomain.SocialIdentity) error {
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNoUser
	}
	return s.notifier.SendConfirmation(ctx, user, identity)
}

// askUserToConfirmAsync enqueues the confirmation notification without
// failing the registration: the link exists either way, and the user can
// re-trigger the flow to get a fresh token if delivery failed.
func (s *LinkingService) askUserToConfirmAsync(ctx context.Context, identity *identitydomain.SocialIdentity) {
	if err := s.AskUserToConfirm(ctx, identity); err != nil {
		log.Printf("linking: enqueue confirmation for identity %s: %v", identity.ID, err)
	}
}
