package idp

import (
	persistence "github.com/goliatone/go-persistence-bun"
)

// RegisterModels registers the package models with the persistence client so
// fixtures and migrations can resolve them. Call once during bootstrap,
// before the client is started.
func RegisterModels() {
	persistence.RegisterModel((*User)(nil))
	persistence.RegisterModel((*Client)(nil))
	persistence.RegisterModel((*PasswordReset)(nil))
}
