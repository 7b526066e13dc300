package diff

import "bitacora/internal/activity/models"

// Field declares one trackable attribute of an entity schema.
//
// Fields with a Nested list are structured one level deep (address,
// shipping): the engine recurses into the declared leaves and emits dotted
// paths per differing leaf.
type Field struct {
	Name   string
	Nested []string
}

// Schema declares the trackable shape of one entity type. Declaration order
// is the emission order of the diff: repeated diffs of equivalent changes
// always produce the identical output list.
type Schema struct {
	EntityType models.EntityType
	Fields     []Field
}

// excluded lists volatile bookkeeping fields that are never compared even
// when a caller declares them in a schema.
var excluded = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
	"version":   true,
}

var schemas = map[models.EntityType]Schema{
	models.EntityClient: {
		EntityType: models.EntityClient,
		Fields: []Field{
			{Name: "businessName"},
			{Name: "cuit"},
			{Name: "code"},
			{Name: "discount"},
			{Name: "email"},
			{Name: "phone"},
			{Name: "whatsapp"},
			{Name: "priceList"},
			{Name: "contactFirstName"},
			{Name: "contactLastName"},
			{Name: "address", Nested: []string{"street", "city", "province", "zip"}},
			{Name: "salesRepId"},
			{Name: "notes"},
			{Name: "active"},
		},
	},
	models.EntityBudget: orderSchema(models.EntityBudget),
	models.EntityOrder:  orderSchema(models.EntityOrder),
	models.EntityReceipt: {
		EntityType: models.EntityReceipt,
		Fields: []Field{
			{Name: "code"},
			{Name: "items"},
			{Name: "paymentMethod"},
			{Name: "notes"},
		},
	},
	models.EntityUser: {
		EntityType: models.EntityUser,
		Fields: []Field{
			{Name: "email"},
			{Name: "phone"},
			{Name: "active"},
		},
	},
}

// Budgets and orders are the same record before and after conversion, so
// they share one field list.
func orderSchema(entityType models.EntityType) Schema {
	return Schema{
		EntityType: entityType,
		Fields: []Field{
			{Name: "items"},
			{Name: "discount"},
			{Name: "paymentMethod"},
			{Name: "salesRepId"},
			{Name: "deliveryDate"},
			{Name: "shipping", Nested: []string{"method", "address", "cost"}},
			{Name: "status"},
			{Name: "notes"},
		},
	}
}

// SchemaFor returns the declared schema for an entity type.
func SchemaFor(entityType models.EntityType) (Schema, bool) {
	schema, ok := schemas[entityType]
	return schema, ok
}
