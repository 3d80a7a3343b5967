package idp

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Clients interface {
	repository.Repository[*Client]

	GetByClientID(ctx context.Context, clientID string, criteria ...repository.SelectCriteria) (*Client, error)
	GetByClientIDTx(ctx context.Context, tx bun.IDB, clientID string, criteria ...repository.SelectCriteria) (*Client, error)

	Create(ctx context.Context, record *Client, criteria ...repository.InsertCriteria) (*Client, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Client, criteria ...repository.InsertCriteria) (*Client, error)

	Save(ctx context.Context, record *Client) (*Client, error)
	SaveTx(ctx context.Context, tx bun.IDB, record *Client) (*Client, error)

	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type clients struct {
	repository.Repository[*Client]
	db *bun.DB
}

var (
	_ Clients      = (*clients)(nil)
	_ ClientFinder = (*clients)(nil)
)

func NewClientsRepository(db *bun.DB) Clients {
	repo := repository.NewRepository[*Client](db, repository.ModelHandlers[*Client]{
		NewRecord: func() *Client { return &Client{} },
		GetID: func(c *Client) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Client, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "client_id"
		},
	})

	return &clients{
		Repository: repo,
		db:         db,
	}
}

func (a *clients) GetByClientID(ctx context.Context, clientID string, criteria ...repository.SelectCriteria) (*Client, error) {
	return a.GetByClientIDTx(ctx, a.db, clientID, criteria...)
}

func (a *clients) GetByClientIDTx(ctx context.Context, tx bun.IDB, clientID string, criteria ...repository.SelectCriteria) (*Client, error) {
	record := &Client{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.client_id = ?", strings.TrimSpace(clientID)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"client_id": clientID,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *clients) Create(ctx context.Context, record *Client, criteria ...repository.InsertCriteria) (*Client, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *clients) CreateTx(ctx context.Context, tx bun.IDB, record *Client, criteria ...repository.InsertCriteria) (*Client, error) {
	prepareClientDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// Save writes the full mutable column set of an already-registered client.
// The client_id column is deliberately not in the list: it is immutable.
func (a *clients) Save(ctx context.Context, record *Client) (*Client, error) {
	return a.SaveTx(ctx, a.db, record)
}

func (a *clients) SaveTx(ctx context.Context, tx bun.IDB, record *Client) (*Client, error) {
	now := time.Now()
	record.UpdatedAt = &now

	_, err := tx.NewUpdate().
		Model(record).
		Column(
			"name",
			"secret_hash",
			"grant_types",
			"auth_methods",
			"redirect_uris",
			"post_logout_uris",
			"scopes",
			"token_settings",
			"client_settings",
			"updated_at",
		).
		WherePK().
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (a *clients) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *clients) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model(&Client{ID: id}).
		WherePK().
		Exec(ctx)
	return err
}

func prepareClientDefaults(record *Client) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.IssuedAt == nil {
		now := time.Now()
		record.IssuedAt = &now
	}
}
