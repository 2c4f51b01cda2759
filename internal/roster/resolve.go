package roster

// resolve.go implements the header-variant matching that copes with the
// sheet's inconsistent column naming. Exact matches must always outrank
// substring matches regardless of variant order; otherwise a short
// variant could hijack an unrelated column that merely contains it.

import "strings"

// ResolveField finds the value for one logical field in a row.
//
// Matching runs in three strict tiers, first hit wins:
//
//  1. exact header key, per variant in listed order
//  2. case-insensitive header key, per variant in listed order
//  3. case-insensitive substring, per variant in listed order, scanning
//     columns in header order; only variants longer than three
//     characters take part, and the tier runs only when tiers 1 and 2
//     matched nothing for any variant
//
// Values are trimmed, and a value that trims to nothing never counts as
// a match. Returns "" when the field cannot be resolved.
func ResolveField(row RawRow, columns []string, variants []string) string {
	// Tier 1: exact header match.
	for _, v := range variants {
		if raw, ok := row.Values[v]; ok {
			if val := strings.TrimSpace(raw); val != "" {
				return val
			}
		}
	}

	// Tier 2: exact match ignoring case. Columns are scanned in header
	// order so resolution stays deterministic.
	for _, v := range variants {
		for _, col := range columns {
			if !strings.EqualFold(col, v) {
				continue
			}
			if val := strings.TrimSpace(row.Values[col]); val != "" {
				return val
			}
		}
	}

	// Tier 3: substring match. Variants of three characters or fewer
	// are excluded; they produce too many spurious hits ("id" would
	// match "guided").
	for _, v := range variants {
		if len(v) <= 3 {
			continue
		}
		needle := strings.ToLower(v)
		for _, col := range columns {
			if !strings.Contains(strings.ToLower(col), needle) {
				continue
			}
			if val := strings.TrimSpace(row.Values[col]); val != "" {
				return val
			}
		}
	}

	return ""
}

// Normalize resolves every logical field of one row against the member
// field table. Fields are independent; nothing here looks across
// columns or rows.
func Normalize(row RawRow, columns []string) NormalizedFields {
	return NormalizedFields{
		Timestamp:    ResolveField(row, columns, fieldTimestamp.Variants),
		Name:         ResolveField(row, columns, fieldName.Variants),
		Email:        ResolveField(row, columns, fieldEmail.Variants),
		Mobile:       ResolveField(row, columns, fieldMobile.Variants),
		ParentName:   ResolveField(row, columns, fieldParentName.Variants),
		ParentMobile: ResolveField(row, columns, fieldParentMobile.Variants),
		Address:      ResolveField(row, columns, fieldAddress.Variants),
		Vehicle:      ResolveField(row, columns, fieldVehicle.Variants),
		Photo:        ResolveField(row, columns, fieldPhoto.Variants),
	}
}
