package roster

import (
	"testing"
	"time"
)

// buildNow is the fixed processing time used by builder tests.
var buildNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

// ----------------------------------------------------------------------------
// BuildMember Tests
// ----------------------------------------------------------------------------

func TestBuildMemberComplete(t *testing.T) {
	f := NormalizedFields{
		Timestamp:    "1/15/2024 10:30:45",
		Name:         "Asha",
		Email:        "asha@example.com",
		Mobile:       "9990001111",
		ParentName:   "Meera",
		ParentMobile: "8880002222",
		Address:      "12 Lake Road",
		Vehicle:      "KA 01 AB 1234",
		Photo:        "https://drive.google.com/file/d/ABC123/view",
	}

	m, reason := BuildMember(4, f, buildNow)
	if reason != "" {
		t.Fatalf("unexpected skip: %q", reason)
	}

	if m.ID != "csv-4" {
		t.Errorf("ID = %q, want csv-4", m.ID)
	}
	if m.Name != "Asha" || m.Mobile != "9990001111" {
		t.Errorf("required fields wrong: %+v", m)
	}
	if m.Email == nil || *m.Email != "asha@example.com" {
		t.Errorf("Email = %v", m.Email)
	}
	if m.ParentName != "Meera" || m.ParentMobile != "8880002222" {
		t.Errorf("parent fields wrong: %+v", m)
	}
	if m.Address == nil || *m.Address != "12 Lake Road" {
		t.Errorf("Address = %v", m.Address)
	}
	if m.Vehicle == nil || *m.Vehicle != "KA 01 AB 1234" {
		t.Errorf("Vehicle = %v", m.Vehicle)
	}
	if m.PhotoURL == nil || *m.PhotoURL != "https://drive.google.com/uc?export=view&id=ABC123" {
		t.Errorf("PhotoURL = %v", m.PhotoURL)
	}
	if m.RegisteredOn != (Date{2024, time.January, 15}) {
		t.Errorf("RegisteredOn = %v", m.RegisteredOn)
	}
	if m.FeeExpiresOn != (Date{2024, time.February, 15}) {
		t.Errorf("FeeExpiresOn = %v", m.FeeExpiresOn)
	}
	if m.Status != StatusActive {
		t.Errorf("Status = %q", m.Status)
	}
	if m.PaymentsMade != 0 {
		t.Errorf("PaymentsMade = %d", m.PaymentsMade)
	}
}

func TestBuildMemberGate(t *testing.T) {
	tests := []struct {
		name       string
		fields     NormalizedFields
		wantReason string
	}{
		{
			name:       "missing name",
			fields:     NormalizedFields{Mobile: "9990001111"},
			wantReason: "name is empty",
		},
		{
			name:       "missing mobile",
			fields:     NormalizedFields{Name: "Asha"},
			wantReason: "mobile is empty",
		},
		{
			name:       "missing both",
			fields:     NormalizedFields{Email: "x@example.com"},
			wantReason: "name is empty",
		},
		{
			name:       "minimal valid row",
			fields:     NormalizedFields{Name: "Asha", Mobile: "9990001111"},
			wantReason: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reason := BuildMember(1, tt.fields, buildNow)
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestBuildMemberFallbacks(t *testing.T) {
	m, reason := BuildMember(1, NormalizedFields{Name: "Asha", Mobile: "9990001111"}, buildNow)
	if reason != "" {
		t.Fatalf("unexpected skip: %q", reason)
	}

	if m.ParentName != DefaultParentName {
		t.Errorf("ParentName = %q, want %q", m.ParentName, DefaultParentName)
	}
	if m.ParentMobile != "9990001111" {
		t.Errorf("ParentMobile = %q, want the member's own mobile", m.ParentMobile)
	}
	if m.Email != nil || m.Address != nil || m.Vehicle != nil || m.PhotoURL != nil {
		t.Errorf("optional fields should be nil when unresolved: %+v", m)
	}
}

func TestBuildMemberTimestampFallback(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
	}{
		{name: "empty timestamp", timestamp: ""},
		{name: "unreadable timestamp", timestamp: "last tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NormalizedFields{Name: "Asha", Mobile: "9990001111", Timestamp: tt.timestamp}
			m, reason := BuildMember(1, f, buildNow)
			if reason != "" {
				t.Fatalf("unexpected skip: %q", reason)
			}

			if m.RegisteredOn != DateOf(buildNow) {
				t.Errorf("RegisteredOn = %v, want %v", m.RegisteredOn, DateOf(buildNow))
			}
			if m.FeeExpiresOn != DateOf(buildNow).AddMonths(1) {
				t.Errorf("FeeExpiresOn = %v", m.FeeExpiresOn)
			}
		})
	}
}

func TestBuildMemberExpiryClamps(t *testing.T) {
	f := NormalizedFields{Name: "Asha", Mobile: "9990001111", Timestamp: "2024-01-31"}

	m, reason := BuildMember(1, f, buildNow)
	if reason != "" {
		t.Fatalf("unexpected skip: %q", reason)
	}

	if m.FeeExpiresOn != (Date{2024, time.February, 29}) {
		t.Errorf("FeeExpiresOn = %v, want 2024-02-29", m.FeeExpiresOn)
	}
}

func TestBuildMemberPhotoPassthrough(t *testing.T) {
	tests := []struct {
		name  string
		photo string
		want  string
	}{
		{
			name:  "drive link rewritten",
			photo: "https://drive.google.com/open?id=XYZ9",
			want:  "https://drive.google.com/uc?export=view&id=XYZ9",
		},
		{
			name:  "drive link without id kept",
			photo: "https://drive.google.com/drive/my-drive",
			want:  "https://drive.google.com/drive/my-drive",
		},
		{
			name:  "plain url kept",
			photo: "https://example.com/asha.jpg",
			want:  "https://example.com/asha.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NormalizedFields{Name: "Asha", Mobile: "9990001111", Photo: tt.photo}
			m, reason := BuildMember(1, f, buildNow)
			if reason != "" {
				t.Fatalf("unexpected skip: %q", reason)
			}
			if m.PhotoURL == nil || *m.PhotoURL != tt.want {
				t.Errorf("PhotoURL = %v, want %q", m.PhotoURL, tt.want)
			}
		})
	}
}

func TestBuildMemberIDsFollowLine(t *testing.T) {
	f := NormalizedFields{Name: "Asha", Mobile: "9990001111"}

	for line, want := range map[int]string{1: "csv-1", 2: "csv-2", 17: "csv-17"} {
		m, reason := BuildMember(line, f, buildNow)
		if reason != "" {
			t.Fatalf("unexpected skip: %q", reason)
		}
		if m.ID != want {
			t.Errorf("ID for line %d = %q, want %q", line, m.ID, want)
		}
	}
}
