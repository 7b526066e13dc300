package actors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "bitacora/pkg/domain"
	"bitacora/pkg/platform/sentinel"
)

// PostgresStore reads actors from the panel's users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the users table when absent. Dev and test
// convenience; the panel owns this table in production.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY,
			first_name TEXT NOT NULL DEFAULT '',
			last_name  TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL DEFAULT '',
			active     BOOLEAN NOT NULL DEFAULT TRUE
		);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, actorID id.ActorID) (*Actor, error) {
	const query = `
		SELECT id, first_name, last_name, email, active
		FROM users
		WHERE id = $1
	`

	var (
		actor Actor
		rawID uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(actorID)).Scan(
		&rawID, &actor.FirstName, &actor.LastName, &actor.Email, &actor.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query actor: %w", err)
	}

	actor.ID = id.ActorID(rawID)
	return &actor, nil
}

// Insert adds an actor row. Used by seeding and integration tests.
func (s *PostgresStore) Insert(ctx context.Context, actor Actor) error {
	const query = `
		INSERT INTO users (id, first_name, last_name, email, active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(actor.ID), actor.FirstName, actor.LastName, actor.Email, actor.Active,
	)
	if err != nil {
		return fmt.Errorf("insert actor: %w", err)
	}
	return nil
}
