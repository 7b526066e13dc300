// Package postgres provides the durable activity store.
//
// Records land in a single append-only table. Each insert is one statement,
// so a cancelled append never leaves a partial record visible. A BIGSERIAL
// sequence column breaks CreatedAt ties at the timestamp precision postgres
// persists.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	id "bitacora/pkg/domain"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the activity table and indexes when absent. Dev and
// test convenience; production deployments run migrations out of band.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS activity_records (
			id          UUID PRIMARY KEY,
			seq         BIGSERIAL NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id   TEXT NOT NULL,
			event_kind  TEXT NOT NULL,
			actor_id    UUID,
			changes     JSONB NOT NULL DEFAULT '[]',
			description TEXT NOT NULL DEFAULT '',
			device      TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS activity_records_entity_idx
			ON activity_records (entity_type, entity_id, created_at DESC, seq DESC);
		CREATE INDEX IF NOT EXISTS activity_records_actor_idx
			ON activity_records (actor_id, created_at DESC, seq DESC);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure activity schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, record *models.ActivityRecord) error {
	changes, err := json.Marshal(changesOrEmpty(record.Changes))
	if err != nil {
		return fmt.Errorf("marshal change list: %w", err)
	}

	var actorID *uuid.UUID
	if !record.ActorID.IsNil() {
		raw := uuid.UUID(record.ActorID)
		actorID = &raw
	}

	const query = `
		INSERT INTO activity_records (
			id, entity_type, entity_id, event_kind, actor_id,
			changes, description, device, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(record.ID),
		string(record.EntityType),
		record.EntityID,
		string(record.EventKind),
		actorID,
		changes,
		record.Description,
		record.Device,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity record: %w", err)
	}
	return nil
}

func (s *Store) ListForEntity(ctx context.Context, entityType models.EntityType, entityID string, filter store.Filter) ([]models.ActivityRecord, error) {
	query, args := buildListQuery(
		"entity_type = $1 AND entity_id = $2",
		[]any{string(entityType), entityID},
		filter,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entity activity: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Store) ListForActor(ctx context.Context, actorID id.ActorID, filter store.Filter) ([]models.ActivityRecord, error) {
	query, args := buildListQuery(
		"actor_id = $1",
		[]any{uuid.UUID(actorID)},
		filter,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actor activity: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// buildListQuery composes the shared SELECT with optional kind and actor
// restrictions appended as numbered placeholders.
func buildListQuery(where string, args []any, filter store.Filter) (string, []any) {
	query := `
		SELECT id, entity_type, entity_id, event_kind, actor_id,
		       changes, description, device, created_at
		FROM activity_records
		WHERE ` + where

	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, kind := range filter.Kinds {
			kinds[i] = string(kind)
		}
		args = append(args, pq.Array(kinds))
		query += fmt.Sprintf(" AND event_kind = ANY($%d)", len(args))
	}
	if !filter.ActorID.IsNil() {
		args = append(args, uuid.UUID(filter.ActorID))
		query += fmt.Sprintf(" AND actor_id = $%d", len(args))
	}

	args = append(args, filter.EffectiveLimit())
	query += fmt.Sprintf(" ORDER BY created_at DESC, seq DESC LIMIT $%d", len(args))

	return query, args
}

func scanRecords(rows *sql.Rows) ([]models.ActivityRecord, error) {
	records := make([]models.ActivityRecord, 0)

	for rows.Next() {
		var (
			record     models.ActivityRecord
			recordID   uuid.UUID
			entityType string
			eventKind  string
			actorID    *uuid.UUID
			changes    []byte
		)
		err := rows.Scan(
			&recordID,
			&entityType,
			&record.EntityID,
			&eventKind,
			&actorID,
			&changes,
			&record.Description,
			&record.Device,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity record: %w", err)
		}

		record.ID = id.ActivityID(recordID)
		record.EntityType = models.EntityType(entityType)
		record.EventKind = models.EventKind(eventKind)
		if actorID != nil {
			record.ActorID = id.ActorID(*actorID)
		}
		if err := json.Unmarshal(changes, &record.Changes); err != nil {
			return nil, fmt.Errorf("unmarshal change list: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity records: %w", err)
	}
	return records, nil
}

func changesOrEmpty(changes []models.EntityChange) []models.EntityChange {
	if changes == nil {
		return []models.EntityChange{}
	}
	return changes
}
