package idp

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
)

// EventSink consumes published domain events, e.g. to send a reset token by
// email or notify an admin-created account. Sinks run best-effort after a
// successful persistence step; sink errors are logged, never propagated.
type EventSink interface {
	Record(ctx context.Context, event Event) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event Event) error

// Record implements EventSink.
func (f EventSinkFunc) Record(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopEventSink struct{}

func (noopEventSink) Record(context.Context, Event) error {
	return nil
}

func normalizeEventSink(s EventSink) EventSink {
	if s == nil {
		return noopEventSink{}
	}
	return s
}

// EventTrigger is the single choke point every state transition flows
// through: it persists the transition an event describes, then publishes the
// event. A failed persistence attempt never yields a published event.
type EventTrigger struct {
	repo   RepositoryManager
	sink   EventSink
	logger Logger
}

// NewEventTrigger creates a trigger with sane defaults.
func NewEventTrigger(repo RepositoryManager) *EventTrigger {
	return &EventTrigger{
		repo:   repo,
		sink:   noopEventSink{},
		logger: defLogger{},
	}
}

// WithEventSink sets the sink events are published to.
func (t *EventTrigger) WithEventSink(sink EventSink) *EventTrigger {
	t.sink = normalizeEventSink(sink)
	return t
}

// WithLogger overrides the logger used by the trigger.
func (t *EventTrigger) WithLogger(logger Logger) *EventTrigger {
	if logger != nil {
		t.logger = logger
	}
	return t
}

// Trigger applies event to storage and publishes it, in that order. It
// returns the persisted aggregate state. The event type set is closed: an
// unrecognized type is a programming error and panics.
func (t *EventTrigger) Trigger(ctx context.Context, event Event) (any, error) {
	aggregate, err := t.apply(ctx, event)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply event").
			WithMetadata(map[string]any{"event": event.Type()})
	}

	t.logger.Debug("event applied: %s %s", event.Type(), print.MaybePrettyJSON(event))

	if err := t.sink.Record(ctx, event); err != nil {
		t.logger.Warn("event sink error for %s: %v", event.Type(), err)
	}

	return aggregate, nil
}

func (t *EventTrigger) apply(ctx context.Context, event Event) (any, error) {
	switch e := event.(type) {
	case *UserCreatedEvent:
		return t.repo.Users().Create(ctx, e.User)

	case *UserDeletedEvent:
		if err := t.repo.Users().DeleteByID(ctx, e.UserID); err != nil {
			return nil, err
		}
		return &User{ID: e.UserID, Username: e.Username}, nil

	case *UserRolesUpdatedEvent:
		return t.repo.Users().UpdateRoles(ctx, e.UserID, e.Roles)

	case *UserPasswordChangedEvent:
		if err := t.repo.Users().UpdatePassword(ctx, e.UserID, e.PasswordHash); err != nil {
			return nil, err
		}
		return t.repo.Users().GetByID(ctx, e.UserID.String())

	case *UserResetStartedEvent:
		expiresAt := e.ExpiresAt
		reset := &PasswordReset{
			UserID:    &e.UserID,
			TokenHash: e.TokenHash,
			Status:    ResetRequestedStatus,
			ExpiresAt: &expiresAt,
		}
		return t.repo.PasswordResets().Create(ctx, reset)

	case *UserResetCompletedEvent:
		err := t.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := t.repo.Users().UpdatePasswordTx(ctx, tx, e.UserID, e.PasswordHash); err != nil {
				return err
			}
			_, err := t.repo.PasswordResets().UpdateTx(ctx, tx, MarkResetTokenUsed(e.ResetID))
			return err
		})
		if err != nil {
			return nil, err
		}
		return t.repo.Users().GetByID(ctx, e.UserID.String())

	case *ClientCreatedEvent:
		return t.repo.Clients().Create(ctx, e.Client)

	case *ClientUpdatedEvent:
		return t.repo.Clients().Save(ctx, e.Client)

	case *ClientSecretRegeneratedEvent:
		return t.repo.Clients().Save(ctx, e.Client)

	case *ClientDeletedEvent:
		if err := t.repo.Clients().DeleteByID(ctx, e.ID); err != nil {
			return nil, err
		}
		return &Client{ID: e.ID, ClientID: e.ClientID}, nil

	default:
		panic(fmt.Sprintf("unhandled event type %T (%s)", event, event.Type()))
	}
}
