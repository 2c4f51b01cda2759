package roster

import (
	"context"
	"time"
)

// RawRow is one data row of the sheet, keyed by the column names exactly
// as they appeared in the header. Rows are ephemeral: they live for one
// conversion pass and are never retained.
type RawRow struct {
	// Line is the 1-based position of the row among the data records
	// that followed the header. It feeds the csv-<n> member id.
	Line int

	// Values maps header name -> raw cell text.
	Values map[string]string
}

// Snapshot is one complete read of the published sheet: the observed
// header in sheet order plus every usable data row.
type Snapshot struct {
	Columns []string
	Rows    []RawRow
}

// FieldSpec lists the acceptable header variants for one logical field.
// Variant order is priority order; earlier variants win within each
// matching tier.
type FieldSpec struct {
	Field    string
	Variants []string
}

// NormalizedFields holds the resolved scalar values for one row, one per
// logical field. Produced by Normalize, consumed immediately by
// BuildMember.
type NormalizedFields struct {
	Timestamp    string
	Name         string
	Email        string
	Mobile       string
	ParentName   string
	ParentMobile string
	Address      string
	Vehicle      string
	Photo        string
}

// Status is a member's lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DefaultParentName is recorded when the sheet has no parent name for a
// member.
const DefaultParentName = "Not Provided"

// Member is the finished unit of output: one enrolled person. Optional
// fields are nil when the sheet did not provide them; callers must
// distinguish "not provided" from an empty string.
type Member struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Mobile       string  `json:"mobile"`
	Email        *string `json:"email,omitempty"`
	ParentName   string  `json:"parentName"`
	ParentMobile string  `json:"parentMobile"`
	Address      *string `json:"address,omitempty"`
	Vehicle      *string `json:"vehicleNumber,omitempty"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
	RegisteredOn Date    `json:"registeredOn"`
	FeeExpiresOn Date    `json:"feeExpiresOn"`
	Status       Status  `json:"status"`
	PaymentsMade int     `json:"paymentsMade"`
}

// SkippedRow records why one row produced no member.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// SyncResult is the outcome of one completed sync run.
type SyncResult struct {
	RunID      string       `json:"runId"`
	StartedAt  time.Time    `json:"startedAt"`
	DurationMs int64        `json:"durationMs"`
	RowCount   int          `json:"rowCount"`
	Imported   int          `json:"imported"`
	Added      int          `json:"added"`
	Updated    int          `json:"updated"`
	Skipped    []SkippedRow `json:"skipped,omitempty"`
}

// NewMember is the write-side payload for creating a roster entry: a
// Member minus its identifier, which the backend assigns.
type NewMember struct {
	Name         string  `json:"name"`
	Mobile       string  `json:"mobile"`
	Email        *string `json:"email,omitempty"`
	ParentName   string  `json:"parentName"`
	ParentMobile string  `json:"parentMobile"`
	Address      *string `json:"address,omitempty"`
	Vehicle      *string `json:"vehicleNumber,omitempty"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
	RegisteredOn Date    `json:"registeredOn"`
	FeeExpiresOn Date    `json:"feeExpiresOn"`
	Status       Status  `json:"status"`
	PaymentsMade int     `json:"paymentsMade"`
}

// MemberPatch is a partial update for an existing roster entry. Nil
// fields are left untouched by the backend.
type MemberPatch struct {
	Name         *string `json:"name,omitempty"`
	Mobile       *string `json:"mobile,omitempty"`
	Email        *string `json:"email,omitempty"`
	ParentName   *string `json:"parentName,omitempty"`
	ParentMobile *string `json:"parentMobile,omitempty"`
	Address      *string `json:"address,omitempty"`
	Vehicle      *string `json:"vehicleNumber,omitempty"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
	RegisteredOn *Date   `json:"registeredOn,omitempty"`
	FeeExpiresOn *Date   `json:"feeExpiresOn,omitempty"`
	Status       *Status `json:"status,omitempty"`
	PaymentsMade *int    `json:"paymentsMade,omitempty"`
}

// Fetcher obtains a snapshot of the published sheet. Implemented by
// sheet.Client; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Writer is the roster backend's write interface. rosterd only mirrors
// into it; the simulation in the store package satisfies it without
// persisting anything.
type Writer interface {
	AddMember(ctx context.Context, m NewMember) (string, error)
	UpdateMember(ctx context.Context, id string, patch MemberPatch) error
}

// NewMemberOf strips the identifier from a Member for an add call.
func NewMemberOf(m Member) NewMember {
	return NewMember{
		Name:         m.Name,
		Mobile:       m.Mobile,
		Email:        m.Email,
		ParentName:   m.ParentName,
		ParentMobile: m.ParentMobile,
		Address:      m.Address,
		Vehicle:      m.Vehicle,
		PhotoURL:     m.PhotoURL,
		RegisteredOn: m.RegisteredOn,
		FeeExpiresOn: m.FeeExpiresOn,
		Status:       m.Status,
		PaymentsMade: m.PaymentsMade,
	}
}

// PatchOf expresses the full state of a Member as a patch for an update
// call. Every field is set; the backend overwrites the stored entry.
func PatchOf(m Member) MemberPatch {
	return MemberPatch{
		Name:         &m.Name,
		Mobile:       &m.Mobile,
		Email:        m.Email,
		ParentName:   &m.ParentName,
		ParentMobile: &m.ParentMobile,
		Address:      m.Address,
		Vehicle:      m.Vehicle,
		PhotoURL:     m.PhotoURL,
		RegisteredOn: &m.RegisteredOn,
		FeeExpiresOn: &m.FeeExpiresOn,
		Status:       &m.Status,
		PaymentsMade: &m.PaymentsMade,
	}
}
