package idp

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of a state transition. Events are the only
// thing the trigger ever persists or publishes; the type set is closed.
type Event interface {
	Type() string
}

// UserCreatedEvent records a new account assembled by an admin command or by
// bootstrap.
type UserCreatedEvent struct {
	User *User `json:"user"`
}

func (e UserCreatedEvent) Type() string { return "user.created" }

// UserDeletedEvent records the removal of an account.
type UserDeletedEvent struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	// DeletedBy is the admin who issued the command
	DeletedBy string `json:"deleted_by"`
}

func (e UserDeletedEvent) Type() string { return "user.deleted" }

// UserRolesUpdatedEvent records a role-set change.
type UserRolesUpdatedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Roles     []Role    `json:"roles"`
	UpdatedBy string    `json:"updated_by"`
}

func (e UserRolesUpdatedEvent) Type() string { return "user.roles_updated" }

// UserPasswordChangedEvent records a credential rotation by the account
// holder. Only the encoded form travels on the event.
type UserPasswordChangedEvent struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}

func (e UserPasswordChangedEvent) Type() string { return "user.password_changed" }

// UserResetStartedEvent carries the raw reset token for one-time delivery
// (e.g. an email listener). The raw value is excluded from serialization and
// must never be persisted; the trigger stores only the hash.
type UserResetStartedEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	RawToken  string    `json:"-"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e UserResetStartedEvent) Type() string { return "user.password_reset.started" }

// UserResetCompletedEvent records a finished reset: the consumed token and
// the replacement password hash.
type UserResetCompletedEvent struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	ResetID      uuid.UUID `json:"reset_id"`
	PasswordHash string    `json:"-"`
}

func (e UserResetCompletedEvent) Type() string { return "user.password_reset.completed" }
