package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bitacora/pkg/domain"
	dErrors "bitacora/pkg/domain-errors"
)

func TestNewRecord_AssignsIdentityAndTimestamp(t *testing.T) {
	now := time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)
	actor := id.NewActorID()

	record, err := NewRecord(EntityClient, "c-1", EventClientEdited, actor,
		[]EntityChange{{Field: "discount", Label: "Discount", From: 0, To: 10}},
		"", now)
	require.NoError(t, err)

	assert.False(t, record.ID.IsNil())
	assert.Equal(t, now, record.CreatedAt)
	assert.Equal(t, actor, record.ActorID)
	assert.False(t, record.IsSystemEvent())
}

func TestNewRecord_ValidatesKindEntityPairing(t *testing.T) {
	now := time.Now()
	actor := id.NewActorID()

	tests := []struct {
		name       string
		entityType EntityType
		kind       EventKind
		wantErr    bool
	}{
		{"order_converted valid for order", EntityOrder, EventOrderConverted, false},
		{"order_converted valid for budget", EntityBudget, EventOrderConverted, false},
		{"order_converted invalid for client", EntityClient, EventOrderConverted, true},
		{"client_created valid for client", EntityClient, EventClientCreated, false},
		{"client_created invalid for receipt", EntityReceipt, EventClientCreated, true},
		{"login valid for auth-session", EntityAuthSession, EventLogin, false},
		{"password_changed invalid for auth-session", EntityAuthSession, EventPasswordChanged, true},
		{"unknown kind rejected", EntityClient, EventKind("client_exploded"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.entityType, "e-1", tt.kind, actor, nil, "", now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidEventKind))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewRecord_ActorRequirement(t *testing.T) {
	now := time.Now()

	t.Run("system kind accepts nil actor", func(t *testing.T) {
		record, err := NewRecord(EntityOrder, "o-1", EventOrderStatusUpdated, id.ActorID{}, nil, "", now)
		require.NoError(t, err)
		assert.True(t, record.IsSystemEvent())
	})

	t.Run("human kind rejects nil actor", func(t *testing.T) {
		_, err := NewRecord(EntityClient, "c-1", EventClientEdited, id.ActorID{}, nil, "", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidEventKind))
	})
}

func TestNewRecord_RejectsNoOpChanges(t *testing.T) {
	now := time.Now()
	actor := id.NewActorID()

	_, err := NewRecord(EntityClient, "c-1", EventClientEdited, actor,
		[]EntityChange{{Field: "notes", Label: "Notes", From: "same", To: "same"}},
		"", now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNewRecord_RejectsStructurallyEqualChanges(t *testing.T) {
	now := time.Now()
	actor := id.NewActorID()

	// Deep equality, not identity: two distinct but equal maps are a no-op.
	_, err := NewRecord(EntityClient, "c-1", EventClientEdited, actor,
		[]EntityChange{{
			Field: "address",
			Label: "Address",
			From:  map[string]any{"city": "Rosario"},
			To:    map[string]any{"city": "Rosario"},
		}},
		"", now)
	require.Error(t, err)
}

func TestEventKind_Labels(t *testing.T) {
	for _, kind := range Kinds() {
		assert.NotEqual(t, "", kind.Label(), "kind %q has no label", kind)
	}

	assert.Equal(t, "Budget converted to order", EventOrderConverted.Label())
	assert.Equal(t, "WhatsApp message sent", EventWhatsAppSent.Label())

	// Unrecognized kinds fall back to the raw string.
	assert.Equal(t, "ancient_kind", EventKind("ancient_kind").Label())
}

func TestFieldLabel_Fallback(t *testing.T) {
	assert.Equal(t, "Payment method", FieldLabel("paymentMethod"))
	assert.Equal(t, "CUIT", FieldLabel("cuit"))
	assert.Equal(t, "address.city", FieldLabel("address.city"))
	assert.Equal(t, "somethingNew", FieldLabel("somethingNew"))
}
