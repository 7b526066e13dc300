package models

// EntityType enumerates the business records whose histories are tracked.
type EntityType string

const (
	EntityClient      EntityType = "client"
	EntityOrder       EntityType = "order"
	EntityBudget      EntityType = "budget"
	EntityReceipt     EntityType = "receipt"
	EntityUser        EntityType = "user"
	EntityAuthSession EntityType = "auth-session"
)

// ParseEntityType validates a raw entity type string.
func ParseEntityType(raw string) (EntityType, bool) {
	switch EntityType(raw) {
	case EntityClient, EntityOrder, EntityBudget, EntityReceipt, EntityUser, EntityAuthSession:
		return EntityType(raw), true
	}
	return "", false
}

// EventKind is the closed classification of what happened to an entity.
type EventKind string

const (
	// Client events
	EventClientCreated EventKind = "client_created"
	EventClientEdited  EventKind = "client_edited"
	EventClientDeleted EventKind = "client_deleted"
	EventStatusChanged EventKind = "status_changed"

	// Budget/order events. Budgets convert into orders and can be reverted;
	// both shapes share the same entity record, so both families admit the
	// full set.
	EventBudgetCreated      EventKind = "budget_created"
	EventBudgetEdited       EventKind = "budget_edited"
	EventBudgetDeleted      EventKind = "budget_deleted"
	EventOrderConverted     EventKind = "order_converted"
	EventOrderEdited        EventKind = "order_edited"
	EventOrderDeleted       EventKind = "order_deleted"
	EventOrderReverted      EventKind = "order_reverted"
	EventOrderStatusUpdated EventKind = "order_status_updated"

	// Receipt events
	EventReceiptCreated   EventKind = "receipt_created"
	EventReceiptEdited    EventKind = "receipt_edited"
	EventReceiptDeleted   EventKind = "receipt_deleted"
	EventReceiptCancelled EventKind = "receipt_cancelled"

	// Communication events
	EventEmailSent    EventKind = "email_sent"
	EventWhatsAppSent EventKind = "whatsapp_sent"

	// Identity events
	EventLogin           EventKind = "login"
	EventLogout          EventKind = "logout"
	EventPasswordChanged EventKind = "password_changed"
)

// kindEntities maps each event kind to the entity families that admit it.
// This is the source of truth for construction-time validation.
var kindEntities = map[EventKind][]EntityType{
	EventClientCreated: {EntityClient},
	EventClientEdited:  {EntityClient},
	EventClientDeleted: {EntityClient},
	EventStatusChanged: {EntityClient},

	EventBudgetCreated:      {EntityBudget, EntityOrder},
	EventBudgetEdited:       {EntityBudget, EntityOrder},
	EventBudgetDeleted:      {EntityBudget, EntityOrder},
	EventOrderConverted:     {EntityBudget, EntityOrder},
	EventOrderEdited:        {EntityBudget, EntityOrder},
	EventOrderDeleted:       {EntityBudget, EntityOrder},
	EventOrderReverted:      {EntityBudget, EntityOrder},
	EventOrderStatusUpdated: {EntityBudget, EntityOrder},

	EventReceiptCreated:   {EntityReceipt},
	EventReceiptEdited:    {EntityReceipt},
	EventReceiptDeleted:   {EntityReceipt},
	EventReceiptCancelled: {EntityReceipt},

	EventEmailSent:    {EntityClient, EntityBudget, EntityOrder},
	EventWhatsAppSent: {EntityClient, EntityBudget, EntityOrder},

	EventLogin:           {EntityAuthSession, EntityUser},
	EventLogout:          {EntityAuthSession, EntityUser},
	EventPasswordChanged: {EntityUser},
}

// kindLabels maps each kind to its fixed human label.
var kindLabels = map[EventKind]string{
	EventClientCreated: "Client created",
	EventClientEdited:  "Client edited",
	EventClientDeleted: "Client deleted",
	EventStatusChanged: "Status changed",

	EventBudgetCreated:      "Budget created",
	EventBudgetEdited:       "Budget edited",
	EventBudgetDeleted:      "Budget deleted",
	EventOrderConverted:     "Budget converted to order",
	EventOrderEdited:        "Order edited",
	EventOrderDeleted:       "Order deleted",
	EventOrderReverted:      "Order reverted to budget",
	EventOrderStatusUpdated: "Order status updated",

	EventReceiptCreated:   "Receipt created",
	EventReceiptEdited:    "Receipt edited",
	EventReceiptDeleted:   "Receipt deleted",
	EventReceiptCancelled: "Receipt cancelled",

	EventEmailSent:    "Email sent",
	EventWhatsAppSent: "WhatsApp message sent",

	EventLogin:           "Logged in",
	EventLogout:          "Logged out",
	EventPasswordChanged: "Password changed",
}

// systemEmittable flags kinds that machines emit without a human actor
// (webhooks, schedulers). Only these may carry a nil actor ID.
var systemEmittable = map[EventKind]bool{
	EventOrderStatusUpdated: true,
}

// Valid reports whether the kind belongs to the closed taxonomy.
func (k EventKind) Valid() bool {
	_, ok := kindEntities[k]
	return ok
}

// AllowsEntity reports whether the kind may be recorded against the given
// entity family.
func (k EventKind) AllowsEntity(entityType EntityType) bool {
	for _, allowed := range kindEntities[k] {
		if allowed == entityType {
			return true
		}
	}
	return false
}

// AllowsSystemActor reports whether the kind may be recorded without a
// human actor.
func (k EventKind) AllowsSystemActor() bool {
	return systemEmittable[k]
}

// Label returns the fixed human label for the kind. Unknown kinds fall back
// to the raw kind string so a stale consumer still renders something.
func (k EventKind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return string(k)
}

// Kinds returns every kind in the taxonomy. Intended for tests and for the
// handler's filter validation.
func Kinds() []EventKind {
	out := make([]EventKind, 0, len(kindEntities))
	for k := range kindEntities {
		out = append(out, k)
	}
	return out
}
