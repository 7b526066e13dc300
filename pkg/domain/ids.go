// Package domain defines typed identifiers shared across modules.
//
// IDs wrap uuid.UUID so the compiler keeps an actor ID from ever standing in
// for an activity ID. Parse helpers enforce the invariant that IDs arriving
// at trust boundaries are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "bitacora/pkg/domain-errors"
)

// ActivityID identifies one immutable activity record.
type ActivityID uuid.UUID

// ActorID identifies the panel user who performed an action.
type ActorID uuid.UUID

// NewActivityID returns a fresh random activity ID.
func NewActivityID() ActivityID { return ActivityID(uuid.New()) }

// NewActorID returns a fresh random actor ID.
func NewActorID() ActorID { return ActorID(uuid.New()) }

func (id ActivityID) String() string { return uuid.UUID(id).String() }
func (id ActorID) String() string    { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id ActivityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// IsNil reports whether the ID is the zero UUID.
func (id ActorID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText encodes the ID as its canonical UUID string.
func (id ActivityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// MarshalText encodes the ID as its canonical UUID string.
func (id ActorID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText decodes an ID from its canonical UUID string.
func (id *ActivityID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	*id = ActivityID(parsed)
	return nil
}

// UnmarshalText decodes an ID from its canonical UUID string.
func (id *ActorID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	*id = ActorID(parsed)
	return nil
}

// ParseActivityID parses and validates an activity ID from its string form.
func ParseActivityID(raw string) (ActivityID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return ActivityID{}, err
	}
	return ActivityID(parsed), nil
}

// ParseActorID parses and validates an actor ID from its string form.
func ParseActorID(raw string) (ActorID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return ActorID{}, err
	}
	return ActorID(parsed), nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}
