package roster

// build.go assembles Members from resolved rows. Skips are signalled
// with a reason string rather than an error: a row without the required
// fields is an everyday occurrence in a form-fed sheet, not a failure.

import (
	"strconv"
	"time"

	"github.com/rosterd/rosterd/internal/gdrive"
)

// memberIDPrefix starts every sheet-derived member id.
const memberIDPrefix = "csv-"

// BuildMember assembles a Member from one row's resolved fields. The
// second return is the skip reason, empty when the member is valid.
//
// line is the row's 1-based position among the sheet's data rows; it
// makes the id deterministic within a run (csv-<line>). now anchors the
// registration-date fallback for rows whose timestamp is missing or
// unreadable.
func BuildMember(line int, f NormalizedFields, now time.Time) (Member, string) {
	if f.Name == "" {
		return Member{}, "name is empty"
	}
	if f.Mobile == "" {
		return Member{}, "mobile is empty"
	}

	registered, ok := ParseTimestamp(f.Timestamp)
	if !ok {
		registered = DateOf(now)
	}

	parentName := f.ParentName
	if parentName == "" {
		parentName = DefaultParentName
	}

	parentMobile := f.ParentMobile
	if parentMobile == "" {
		parentMobile = f.Mobile
	}

	return Member{
		ID:           memberIDPrefix + strconv.Itoa(line),
		Name:         f.Name,
		Mobile:       f.Mobile,
		Email:        optional(f.Email),
		ParentName:   parentName,
		ParentMobile: parentMobile,
		Address:      optional(f.Address),
		Vehicle:      optional(f.Vehicle),
		PhotoURL:     photoURL(f.Photo),
		RegisteredOn: registered,
		FeeExpiresOn: registered.AddMonths(1),
		Status:       StatusActive,
		PaymentsMade: 0,
	}, ""
}

// optional returns nil for empty values so absent fields serialize as
// absent rather than "".
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// photoURL normalizes a photo reference: Drive share links become
// direct-content URLs, anything else passes through unchanged, empty
// stays nil.
func photoURL(s string) *string {
	if s == "" {
		return nil
	}
	u := gdrive.DirectURL(s)
	return &u
}
