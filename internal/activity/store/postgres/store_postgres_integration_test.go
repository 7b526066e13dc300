//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	"bitacora/internal/activity/store/postgres"
	id "bitacora/pkg/domain"
	"bitacora/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background(), "activity_records"))
}

func (s *PostgresStoreSuite) appendRecord(entityID string, kind models.EventKind, actorID id.ActorID, at time.Time, changes []models.EntityChange) *models.ActivityRecord {
	record, err := models.NewRecord(models.EntityClient, entityID, kind, actorID, changes, "", at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(context.Background(), record))
	return record
}

func (s *PostgresStoreSuite) TestListForEntityNewestFirst() {
	ctx := context.Background()
	actorID := id.NewActorID()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	oldest := s.appendRecord("c-1", models.EventClientCreated, actorID, base, nil)
	middle := s.appendRecord("c-1", models.EventClientEdited, actorID, base.Add(time.Minute), nil)
	newest := s.appendRecord("c-1", models.EventClientEdited, actorID, base.Add(2*time.Minute), nil)

	records, err := s.store.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Equal(newest.ID, records[0].ID)
	s.Equal(middle.ID, records[1].ID)
	s.Equal(oldest.ID, records[2].ID)
}

func (s *PostgresStoreSuite) TestEqualTimestampsBreakTiesByInsertionOrder() {
	ctx := context.Background()
	actorID := id.NewActorID()
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	first := s.appendRecord("c-1", models.EventClientCreated, actorID, at, nil)
	second := s.appendRecord("c-1", models.EventClientEdited, actorID, at, nil)

	records, err := s.store.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(second.ID, records[0].ID)
	s.Equal(first.ID, records[1].ID)
}

func (s *PostgresStoreSuite) TestKindAndActorFilters() {
	ctx := context.Background()
	actorID := id.NewActorID()
	other := id.NewActorID()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	s.appendRecord("c-1", models.EventClientCreated, actorID, base, nil)
	edited := s.appendRecord("c-1", models.EventClientEdited, other, base.Add(time.Minute), nil)

	byKind, err := s.store.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{
		Kinds: []models.EventKind{models.EventClientEdited},
	})
	s.Require().NoError(err)
	s.Require().Len(byKind, 1)
	s.Equal(edited.ID, byKind[0].ID)

	byActor, err := s.store.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{
		ActorID: other,
	})
	s.Require().NoError(err)
	s.Require().Len(byActor, 1)
	s.Equal(edited.ID, byActor[0].ID)
}

func (s *PostgresStoreSuite) TestLimitTruncates() {
	ctx := context.Background()
	actorID := id.NewActorID()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.appendRecord("c-1", models.EventClientEdited, actorID, base.Add(time.Duration(i)*time.Minute), nil)
	}

	records, err := s.store.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{Limit: 2})
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *PostgresStoreSuite) TestListForActorSpansEntities() {
	ctx := context.Background()
	actorID := id.NewActorID()
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	s.appendRecord("c-1", models.EventClientCreated, actorID, base, nil)
	s.appendRecord("c-2", models.EventClientCreated, actorID, base.Add(time.Minute), nil)
	s.appendRecord("c-3", models.EventClientCreated, id.NewActorID(), base.Add(2*time.Minute), nil)

	records, err := s.store.ListForActor(ctx, actorID, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("c-2", records[0].EntityID)
	s.Equal("c-1", records[1].EntityID)
}

func (s *PostgresStoreSuite) TestSystemEventWithoutActor() {
	ctx := context.Background()
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	record, err := models.NewRecord(models.EntityOrder, "o-1", models.EventOrderStatusUpdated,
		id.ActorID{}, nil, "payment webhook", at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(ctx, record))

	records, err := s.store.ListForEntity(ctx, models.EntityOrder, "o-1", store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.True(records[0].IsSystemEvent())
	s.Equal("payment webhook", records[0].Description)
}

func (s *PostgresStoreSuite) TestChangesRoundTrip() {
	ctx := context.Background()
	actorID := id.NewActorID()
	at := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	s.appendRecord("c-1", models.EventClientEdited, actorID, at, []models.EntityChange{
		{Field: "address.city", Label: "Address / City", From: "Rosario", To: "Cordoba"},
		{Field: "discount", Label: "Discount", From: float64(5), To: float64(10)},
	})

	records, err := s.store.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Require().Len(records[0].Changes, 2)
	s.Equal("address.city", records[0].Changes[0].Field)
	s.Equal("Rosario", records[0].Changes[0].From)
	s.Equal(float64(10), records[0].Changes[1].To)
}
