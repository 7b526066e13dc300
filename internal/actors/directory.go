// Package actors resolves panel users referenced by activity records into
// display names. The activity log stores only actor IDs; readers join the
// first/last name at query time so renamed users show their current name.
package actors

import (
	"context"
	"strings"

	id "bitacora/pkg/domain"
)

// Actor is the slice of a panel user the activity feed needs.
type Actor struct {
	ID        id.ActorID `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Active    bool       `json:"active"`
}

// DisplayName joins first and last name, tolerating either being empty.
func (a *Actor) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

// Directory looks up actors by ID. Implementations return
// sentinel.ErrNotFound for unknown actors; callers that only need a display
// name should degrade to an empty string rather than failing the read.
type Directory interface {
	FindByID(ctx context.Context, actorID id.ActorID) (*Actor, error)
}
