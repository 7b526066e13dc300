package models

// fieldLabels is the fixed dictionary mapping tracked field paths to the
// names the activity feed shows. Unmapped fields (including nested dotted
// paths) fall back to the raw field name.
var fieldLabels = map[string]string{
	"items":            "Items",
	"discount":         "Discount",
	"notes":            "Notes",
	"paymentMethod":    "Payment method",
	"salesRepId":       "Sales rep",
	"deliveryDate":     "Delivery date",
	"businessName":     "Business name",
	"cuit":             "CUIT",
	"code":             "Code",
	"email":            "Email",
	"phone":            "Phone",
	"whatsapp":         "WhatsApp",
	"priceList":        "Price list",
	"contactFirstName": "Contact first name",
	"contactLastName":  "Contact last name",
	"address":          "Address",
	"shipping":         "Shipping",
	"active":           "Active",
}

// FieldLabel resolves the display label for a field path.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
