package handler

import (
	"time"

	"bitacora/internal/activity/models"
	"bitacora/internal/activity/service"
	"bitacora/pkg/relativetime"
)

// RecordResponse is one activity record as rendered to the panel.
type RecordResponse struct {
	ID          string           `json:"id"`
	EntityType  string           `json:"entity_type"`
	EntityID    string           `json:"entity_id"`
	EventKind   string           `json:"event_kind"`
	EventLabel  string           `json:"event_label"`
	ActorID     string           `json:"actor_id,omitempty"`
	ActorName   string           `json:"actor_name,omitempty"`
	Changes     []ChangeResponse `json:"changes"`
	Description string           `json:"description,omitempty"`
	Device      string           `json:"device,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	When        string           `json:"when"`
}

// ChangeResponse is one field delta in a RecordResponse.
type ChangeResponse struct {
	Field string `json:"field"`
	Label string `json:"label"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// ListResponse is the envelope for history listings.
type ListResponse struct {
	Records []RecordResponse `json:"records"`
}

// FromViews converts decorated records to the HTTP representation,
// humanizing each timestamp against the request instant.
func FromViews(views []service.RecordView, now time.Time) ListResponse {
	records := make([]RecordResponse, 0, len(views))
	for _, view := range views {
		records = append(records, fromView(view, now))
	}
	return ListResponse{Records: records}
}

// FromRecord converts a freshly appended record.
func FromRecord(record *models.ActivityRecord, now time.Time) RecordResponse {
	return fromView(service.RecordView{
		ActivityRecord: *record,
		EventLabel:     record.EventKind.Label(),
	}, now)
}

func fromView(view service.RecordView, now time.Time) RecordResponse {
	changes := make([]ChangeResponse, 0, len(view.Changes))
	for _, change := range view.Changes {
		changes = append(changes, ChangeResponse{
			Field: change.Field,
			Label: change.Label,
			From:  change.From,
			To:    change.To,
		})
	}

	resp := RecordResponse{
		ID:          view.ID.String(),
		EntityType:  string(view.EntityType),
		EntityID:    view.EntityID,
		EventKind:   string(view.EventKind),
		EventLabel:  view.EventLabel,
		ActorName:   view.ActorName,
		Changes:     changes,
		Description: view.Description,
		Device:      view.Device,
		CreatedAt:   view.CreatedAt,
		When:        relativetime.Describe(view.CreatedAt, now),
	}
	if !view.ActorID.IsNil() {
		resp.ActorID = view.ActorID.String()
	}
	return resp
}
