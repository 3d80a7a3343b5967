package idp

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account aggregate. State changes flow through its command
// methods, which return events; the EventTrigger persists and publishes them.
//
// Username and email carry unique columns so concurrent duplicate inserts
// fail at the database rather than racing an existence check.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Roles         []Role     `bun:"roles,notnull" json:"roles,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Client is the OAuth/OIDC client registration aggregate.
type Client struct {
	bun.BaseModel  `bun:"table:oidc_clients,alias:cli"`
	ID             uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ClientID       string         `bun:"client_id,notnull,unique" json:"client_id,omitempty"`
	Name           string         `bun:"name,notnull" json:"name,omitempty"`
	SecretHash     string         `bun:"secret_hash,notnull" json:"-"`
	GrantTypes     []GrantType    `bun:"grant_types,notnull" json:"grant_types,omitempty"`
	AuthMethods    []AuthMethod   `bun:"auth_methods,notnull" json:"auth_methods,omitempty"`
	RedirectURIs   []RedirectURI  `bun:"redirect_uris,notnull" json:"redirect_uris,omitempty"`
	PostLogoutURIs []RedirectURI  `bun:"post_logout_uris" json:"post_logout_uris,omitempty"`
	Scopes         []Scope        `bun:"scopes,notnull" json:"scopes,omitempty"`
	TokenSettings  TokenSettings  `bun:"token_settings,notnull" json:"token_settings,omitempty"`
	ClientSettings ClientSettings `bun:"client_settings,notnull" json:"client_settings,omitempty"`
	IssuedAt       *time.Time     `bun:"issued_at,nullzero,default:current_timestamp" json:"issued_at,omitempty"`
	CreatedAt      *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// PasswordResetStatus tracks the lifecycle of a stored reset token.
type PasswordResetStatus = string

const (
	// ResetRequestedStatus marks an unused, pending token
	ResetRequestedStatus PasswordResetStatus = "requested"
	// ResetChangedStatus marks a token consumed by a completed reset
	ResetChangedStatus PasswordResetStatus = "changed"
	// ResetExpiredStatus marks a token invalidated by expiry
	ResetExpiredStatus PasswordResetStatus = "expired"
)

// PasswordReset is the durable record of a reset process. Only the token hash
// is stored; the raw token lives in the ResetStarted event and nowhere else.
type PasswordReset struct {
	bun.BaseModel `bun:"table:password_reset,alias:pwdr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,notnull" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	TokenHash     string     `bun:"token_hash,notnull,unique" json:"-"`
	Status        string     `bun:"status,notnull" json:"status,omitempty"`
	ExpiresAt     *time.Time `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	UsedAt        *time.Time `bun:"used_at,nullzero" json:"used_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// MarkResetTokenUsed builds the update that consumes a reset token.
func MarkResetTokenUsed(id uuid.UUID) *PasswordReset {
	r := &PasswordReset{}
	r.ID = id
	r.Status = ResetChangedStatus
	n := time.Now()
	r.UsedAt = &n
	return r
}
