package idp

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UserFinder is the narrow lookup surface user commands need. The full Users
// repository satisfies it.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
}

// ResetTokenFinder looks up stored reset records by token hash.
type ResetTokenFinder interface {
	GetByTokenHash(ctx context.Context, hash string, criteria ...repository.SelectCriteria) (*PasswordReset, error)
}

// Capability resolves the behavior this user's role set admits. It is
// recomputed on every call so a role update takes effect immediately.
func (u *User) Capability() Capability {
	return ResolveCapability(u.Roles)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Capability().CanCreateUsers()
}

// CreateUserOption tweaks construction of a new account.
type CreateUserOption func(*User)

// WithDeterministicID derives the new account's id from its email instead of
// drawing a random one, so repeated bootstrap runs stay idempotent.
func WithDeterministicID() CreateUserOption {
	return func(user *User) {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		}
	}
}

// CreateUser assembles a new account and returns the creation event. It is
// pure construction: uniqueness is enforced when the event is persisted.
// Only admins may create accounts.
func (u *User) CreateUser(username Username, email Email, password Password, roles []Role, opts ...CreateUserOption) (*UserCreatedEvent, error) {
	if !u.Capability().CanCreateUsers() {
		return nil, newAuthzError("only admins can create users")
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Username:     username.String(),
		Email:        email.String(),
		Roles:        append([]Role(nil), roles...),
		PasswordHash: password.Encoded(),
		CreatedAt:    &now,
	}

	for _, opt := range opts {
		opt(user)
	}

	return &UserCreatedEvent{User: user}, nil
}

// DeleteUser removes the target account. Self-deletion is forbidden, and the
// target must exist.
func (u *User) DeleteUser(ctx context.Context, target Username, repo UserFinder) (*UserDeletedEvent, error) {
	if !u.Capability().CanDeleteUsers() {
		return nil, newAuthzError("only admins can delete users")
	}

	if target.String() == u.Username {
		return nil, newAuthzError("users cannot delete their own account").
			WithTextCode(TextCodeDeletionFailed)
	}

	found, err := u.lookupTarget(ctx, target, repo, TextCodeDeletionFailed)
	if err != nil {
		return nil, err
	}

	return &UserDeletedEvent{
		UserID:    found.ID,
		Username:  found.Username,
		DeletedBy: u.Username,
	}, nil
}

// UpdateRoles replaces the target account's role set.
func (u *User) UpdateRoles(ctx context.Context, target Username, roles []Role, repo UserFinder) (*UserRolesUpdatedEvent, error) {
	if !u.Capability().CanUpdateRoles() {
		return nil, newAuthzError("only admins can update roles")
	}

	parsed, err := ParseRoles(roles)
	if err != nil {
		return nil, err
	}

	found, err := u.lookupTarget(ctx, target, repo, TextCodeUserNotFound)
	if err != nil {
		return nil, err
	}

	return &UserRolesUpdatedEvent{
		UserID:    found.ID,
		Username:  found.Username,
		Roles:     parsed,
		UpdatedBy: u.Username,
	}, nil
}

// ChangePassword rotates the user's own password after verifying the old one
// against the stored hash.
func (u *User) ChangePassword(newPassword Password, oldPlain string, hasher PasswordHasher) (*UserPasswordChangedEvent, error) {
	if err := hasher.Verify(oldPlain, u.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return &UserPasswordChangedEvent{
		UserID:       u.ID,
		Username:     u.Username,
		PasswordHash: newPassword.Encoded(),
	}, nil
}

// StartPasswordReset issues a fresh reset token. The raw value rides on the
// event for one-time delivery; persistence only ever sees the hash.
func (u *User) StartPasswordReset() *UserResetStartedEvent {
	token := NewResetPasswordToken()
	return &UserResetStartedEvent{
		UserID:    u.ID,
		Email:     u.Email,
		RawToken:  token.Raw(),
		TokenHash: token.Hash(),
		ExpiresAt: token.ExpiresAt(),
	}
}

// CompletePasswordReset consumes rawToken and returns the completion event.
// A missing, expired, used, or foreign token all fail with the same error so
// callers cannot probe which check tripped.
func (u *User) CompletePasswordReset(ctx context.Context, newPassword Password, rawToken string, repo ResetTokenFinder) (*UserResetCompletedEvent, error) {
	reset, err := repo.GetByTokenHash(ctx, HashResetToken(rawToken))
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrResetTokenInvalid
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve password reset record")
	}

	if !VerifyResetToken(rawToken, reset.TokenHash) {
		return nil, ErrResetTokenInvalid
	}

	if reset.Status != ResetRequestedStatus {
		return nil, ErrResetTokenInvalid
	}

	if reset.ExpiresAt == nil || time.Now().After(*reset.ExpiresAt) {
		return nil, ErrResetTokenInvalid
	}

	if reset.UserID == nil || *reset.UserID != u.ID {
		return nil, ErrResetTokenInvalid
	}

	return &UserResetCompletedEvent{
		UserID:       u.ID,
		Username:     u.Username,
		ResetID:      reset.ID,
		PasswordHash: newPassword.Encoded(),
	}, nil
}

func (u *User) lookupTarget(ctx context.Context, target Username, repo UserFinder, textCode string) (*User, error) {
	found, err := repo.GetByUsername(ctx, target.String())
	if err != nil {
		if isRecordNotFound(err) {
			return nil, goerrors.New("target user does not exist", goerrors.CategoryNotFound).
				WithTextCode(textCode)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve target user")
	}
	return found, nil
}
