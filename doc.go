// Package idp implements the credential and token lifecycle core of a
// multi-tenant identity provider: validated value objects, the user and
// OAuth client aggregates, secret and password hashing, and RS256 token
// issuance.
//
// Mutation protocol:
//   - Aggregate command methods are pure: they take validated value objects
//     and return a typed event or a typed error, without touching storage.
//   - EventTrigger is the single choke point for side effects. It persists
//     the transition an event describes and then publishes the event to an
//     EventSink, in that order, so no listener ever observes a state change
//     that was not stored.
//
// Event sinks:
//   - EventSink consumes published events (reset-token delivery, admin
//     notifications). Sinks run best-effort; errors are logged so listeners
//     can forward to a queue or mailer without blocking commands.
//
// Hashing:
//   - PasswordHasher is a pluggable one-way strategy. DelegatingHasher
//     stores encodings under an "{alg}" prefix and keeps legacy algorithms
//     verifiable after the current encoder changes.
package idp
