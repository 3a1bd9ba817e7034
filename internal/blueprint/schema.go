package blueprint

import "strings"

// Schema labels are opaque identifiers; the engine only decides whether two
// labels can be reconciled without an explicit transformation. Nothing here
// proves a conversion exists.

var freelyCompatible = map[[2]string]struct{}{
	{"json", "object"}:   {},
	{"bytes", "binary"}:  {},
	{"string", "text"}:   {},
	{"record", "object"}: {},
	{"event", "record"}:  {},
}

// NormalizeSchemaRef canonicalizes a schema label for comparison.
func NormalizeSchemaRef(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SchemasCompatible reports whether data can flow from a port labeled `from`
// to a port labeled `to` without a declared transformation. Unlabeled ports
// and the "any" wildcard accept everything.
func SchemasCompatible(from, to string) bool {
	from = NormalizeSchemaRef(from)
	to = NormalizeSchemaRef(to)

	if from == "" || to == "" || from == to {
		return true
	}
	if from == "any" || to == "any" {
		return true
	}
	if _, ok := freelyCompatible[[2]string{from, to}]; ok {
		return true
	}
	_, ok := freelyCompatible[[2]string{to, from}]
	return ok
}
