// Package diff computes normalized field-level changes between two snapshots
// of the same entity.
//
// The engine is pure: no I/O, no clock, deterministic output. Traversal is
// driven by the declared schema, not by map iteration order, so equivalent
// inputs always yield the identical ordered change list.
package diff

import (
	"reflect"

	"bitacora/internal/activity/models"
	dErrors "bitacora/pkg/domain-errors"
)

// Snapshot is the full field-level state of an entity at one instant.
// Fields not declared in the entity's schema are ignored.
type Snapshot struct {
	EntityType models.EntityType
	EntityID   string
	Fields     map[string]any
}

// Diff produces the ordered change list between two snapshots of the same
// logical entity.
//
// Equal snapshots (over trackable fields) yield an empty list. Snapshots
// with mismatched identity fail with CodeShapeMismatch rather than silently
// diffing unrelated records.
func Diff(schema Schema, before, after Snapshot) ([]models.EntityChange, error) {
	if before.EntityID != after.EntityID || before.EntityType != after.EntityType {
		return nil, dErrors.Newf(dErrors.CodeShapeMismatch,
			"cannot diff %s/%s against %s/%s",
			before.EntityType, before.EntityID, after.EntityType, after.EntityID)
	}
	if schema.EntityType != before.EntityType {
		return nil, dErrors.Newf(dErrors.CodeShapeMismatch,
			"schema for %s cannot diff %s snapshots", schema.EntityType, before.EntityType)
	}

	var changes []models.EntityChange
	for _, field := range schema.Fields {
		if excluded[field.Name] {
			continue
		}

		if len(field.Nested) == 0 {
			changes = appendChange(changes, field.Name,
				before.Fields[field.Name], after.Fields[field.Name])
			continue
		}

		beforeNested := asMap(before.Fields[field.Name])
		afterNested := asMap(after.Fields[field.Name])
		if beforeNested == nil || afterNested == nil {
			// At least one side is a non-map value; compare at the top path.
			changes = appendChange(changes, field.Name,
				before.Fields[field.Name], after.Fields[field.Name])
			continue
		}
		for _, leaf := range field.Nested {
			if excluded[leaf] {
				continue
			}
			changes = appendChange(changes, field.Name+"."+leaf,
				beforeNested[leaf], afterNested[leaf])
		}
	}
	return changes, nil
}

// ForEntity diffs using the declared schema of the snapshots' entity type.
func ForEntity(before, after Snapshot) ([]models.EntityChange, error) {
	schema, ok := SchemaFor(before.EntityType)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeShapeMismatch,
			"no schema declared for entity type %q", before.EntityType)
	}
	return Diff(schema, before, after)
}

func appendChange(changes []models.EntityChange, path string, from, to any) []models.EntityChange {
	if equal(from, to) {
		return changes
	}
	return append(changes, models.EntityChange{
		Field: path,
		Label: models.FieldLabel(path),
		From:  from,
		To:    to,
	})
}

// equal is deep structural equality: value equality for primitives,
// recursive equality for maps, order-sensitive equality for slices.
func equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// asMap returns the value as a nested field map when both shape and
// non-nilness hold, nil otherwise. A nil snapshot side reads as an empty
// map so leaves on the other side still surface as changes.
func asMap(value any) map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case nil:
		return map[string]any{}
	default:
		return nil
	}
}
