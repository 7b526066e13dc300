package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bitacora/internal/activity/models"
	"bitacora/internal/activity/store"
	"bitacora/internal/activity/store/memory"
	"bitacora/internal/activity/store/mocks"
	"bitacora/internal/actors"
	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
)

func appendRecord(t *testing.T, s store.Store, entityID string, kind models.EventKind, actorID id.ActorID, at time.Time) *models.ActivityRecord {
	t.Helper()
	record, err := models.NewRecord(models.EntityClient, entityID, kind, actorID, nil, "", at)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), record))
	return record
}

func TestQuery_ListForEntityDecoratesViews(t *testing.T) {
	mem := memory.NewInMemory()
	directory := actors.NewInMemory()

	actorID := id.NewActorID()
	directory.Put(actors.Actor{ID: actorID, FirstName: "Marta", LastName: "Suarez"})

	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	first := appendRecord(t, mem, "c-1", models.EventClientCreated, actorID, base)
	second := appendRecord(t, mem, "c-1", models.EventClientEdited, actorID, base.Add(time.Minute))

	query := NewQuery(mem, WithDirectory(directory))
	views, err := query.ListForEntity(context.Background(), models.EntityClient, "c-1", store.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, second.ID, views[0].ID)
	assert.Equal(t, "Client edited", views[0].EventLabel)
	assert.Equal(t, "Marta Suarez", views[0].ActorName)

	assert.Equal(t, first.ID, views[1].ID)
	assert.Equal(t, "Client created", views[1].EventLabel)
}

func TestQuery_UnknownActorDegradesToEmptyName(t *testing.T) {
	mem := memory.NewInMemory()
	actorID := id.NewActorID()
	appendRecord(t, mem, "c-1", models.EventClientCreated, actorID, time.Now())

	query := NewQuery(mem, WithDirectory(actors.NewInMemory()))
	views, err := query.ListForEntity(context.Background(), models.EntityClient, "c-1", store.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Empty(t, views[0].ActorName)
}

func TestQuery_UnknownEntityYieldsEmptyPage(t *testing.T) {
	query := NewQuery(memory.NewInMemory())
	views, err := query.ListForEntity(context.Background(), models.EntityClient, "nope", store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestQuery_ListForActor(t *testing.T) {
	mem := memory.NewInMemory()
	actorID := id.NewActorID()
	other := id.NewActorID()

	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	appendRecord(t, mem, "c-1", models.EventClientCreated, actorID, base)
	appendRecord(t, mem, "c-2", models.EventClientCreated, other, base.Add(time.Minute))
	mine := appendRecord(t, mem, "c-3", models.EventClientCreated, actorID, base.Add(2*time.Minute))

	query := NewQuery(mem)
	views, err := query.ListForActor(context.Background(), actorID, store.Filter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, mine.ID, views[0].ID)
}

func TestQuery_ListForActorRequiresID(t *testing.T) {
	query := NewQuery(memory.NewInMemory())
	_, err := query.ListForActor(context.Background(), id.ActorID{}, store.Filter{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestQuery_WrapsStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := mocks.NewMockStore(ctrl)
	storeMock.EXPECT().
		ListForEntity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("relation does not exist"))

	query := NewQuery(storeMock)
	_, err := query.ListForEntity(context.Background(), models.EntityClient, "c-1", store.Filter{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeQuery))
}

func TestQuery_CancellationPassesThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	query := NewQuery(memory.NewInMemory())
	_, err := query.ListForEntity(ctx, models.EntityClient, "c-1", store.Filter{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, dErrors.HasCode(err, dErrors.CodeQuery))
}
