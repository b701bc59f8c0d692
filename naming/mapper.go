// naming/mapper.go
//
// Field ↔ column identifier mapping.
//
// Context
// -------
// Callers describe records with camelCase field names (`createdAt`), while
// the storage schema uses snake_case columns (`created_at`).  Every statement
// builder routes identifiers through these two helpers so the external naming
// convention never leaks into SQL text, and result rows can be mapped back to
// field-shaped records.
//
// Both transforms are pure and deterministic; neither returns an error.  They
// are inverses for identifiers that round-trip cleanly (single-letter humps,
// no digits adjoining case changes), which covers the schema conventions this
// module targets.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package naming

import "strings"

// ToColumn converts a camelCase field name to its snake_case column name.
//
//	ToColumn("createdAt") == "created_at"
//	ToColumn("id")        == "id"
func ToColumn(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(byte(r) + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToField converts a snake_case column name back to camelCase.  The first
// segment is lowercased; every later segment is capitalised.
//
//	ToField("created_at") == "createdAt"
func ToField(column string) string {
	parts := strings.Split(column, "_")
	var b strings.Builder
	b.Grow(len(column))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(strings.ToLower(p))
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}
