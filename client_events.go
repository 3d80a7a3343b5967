package idp

import "github.com/google/uuid"

// ClientCreatedEvent records a new client registration. PlainSecret is the
// one-time plaintext for delivery to the registering admin; it is excluded
// from serialization and never persisted.
type ClientCreatedEvent struct {
	Client      *Client `json:"client"`
	PlainSecret string  `json:"-"`
}

func (e ClientCreatedEvent) Type() string { return "client.created" }

// ClientUpdatedEvent records a metadata update. Client id and secret are
// immutable across updates and unchanged on the carried state.
type ClientUpdatedEvent struct {
	Client *Client `json:"client"`
}

func (e ClientUpdatedEvent) Type() string { return "client.updated" }

// ClientSecretRegeneratedEvent records a secret rotation; the previous secret
// is invalid once this event is triggered.
type ClientSecretRegeneratedEvent struct {
	Client      *Client `json:"client"`
	PlainSecret string  `json:"-"`
}

func (e ClientSecretRegeneratedEvent) Type() string { return "client.secret_regenerated" }

// ClientDeletedEvent records a client removal.
type ClientDeletedEvent struct {
	ID       uuid.UUID `json:"id"`
	ClientID string    `json:"client_id"`
}

func (e ClientDeletedEvent) Type() string { return "client.deleted" }
