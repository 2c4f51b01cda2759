package sheet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	input := strings.Join([]string{
		"Timestamp,Student Name,Mobile Number,Photo",
		"1/15/2024 10:30:00,Asha,9990001111,https://drive.google.com/file/d/ABC/view",
		"1/16/2024 11:00:00,Binu,7776665555,",
	}, "\n")

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Timestamp", "Student Name", "Mobile Number", "Photo"}, snap.Columns)
	require.Len(t, snap.Rows, 2)

	assert.Equal(t, 1, snap.Rows[0].Line)
	assert.Equal(t, "Asha", snap.Rows[0].Values["Student Name"])
	assert.Equal(t, "9990001111", snap.Rows[0].Values["Mobile Number"])

	assert.Equal(t, 2, snap.Rows[1].Line)
	assert.Equal(t, "Binu", snap.Rows[1].Values["Student Name"])
	assert.Equal(t, "", snap.Rows[1].Values["Photo"])
}

func TestDecodeSnapshot_EmptyStream(t *testing.T) {
	snap, err := DecodeSnapshot(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, snap.Columns)
	assert.Empty(t, snap.Rows)
}

func TestDecodeSnapshot_HeaderOnly(t *testing.T) {
	snap, err := DecodeSnapshot(strings.NewReader("Student Name,Mobile Number\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Student Name", "Mobile Number"}, snap.Columns)
	assert.Empty(t, snap.Rows)
}

func TestDecodeSnapshot_SkipsLeadingEmptyRecords(t *testing.T) {
	input := ",,\n\nStudent Name,Mobile Number\nAsha,9990001111\n"

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Student Name", "Mobile Number"}, snap.Columns)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, 1, snap.Rows[0].Line)
}

func TestDecodeSnapshot_EmptyRowKeepsOrdinal(t *testing.T) {
	input := strings.Join([]string{
		"Student Name,Mobile Number",
		"Asha,9990001111",
		",",
		"Binu,7776665555",
	}, "\n")

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)

	// The blank sheet row consumed line 2, so Binu stays at line 3 and
	// keeps the id a re-published sheet would give it.
	assert.Equal(t, 1, snap.Rows[0].Line)
	assert.Equal(t, 3, snap.Rows[1].Line)
}

func TestDecodeSnapshot_RaggedRows(t *testing.T) {
	input := strings.Join([]string{
		"Student Name,Mobile Number,Address",
		"Asha,9990001111",
		"Binu,7776665555,Kochi,extra-cell",
	}, "\n")

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)

	// Short row: the missing column is absent, not empty.
	_, ok := snap.Rows[0].Values["Address"]
	assert.False(t, ok, "short row should not carry an Address key")

	// Long row: cells beyond the header are dropped.
	assert.Equal(t, "Kochi", snap.Rows[1].Values["Address"])
	assert.Len(t, snap.Rows[1].Values, 3)
}

func TestDecodeSnapshot_CleansCells(t *testing.T) {
	input := strings.Join([]string{
		` Student Name , Mobile Number `,
		`="Asha"  ,  '9990001111'`,
	}, "\n")

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Student Name", "Mobile Number"}, snap.Columns)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "Asha", snap.Rows[0].Values["Student Name"])
	assert.Equal(t, "9990001111", snap.Rows[0].Values["Mobile Number"])
}

func TestDecodeSnapshot_HeaderCollisions(t *testing.T) {
	input := "Name,Name,,Mobile\nAsha,Asha Margam,x,999\n"

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Name_2", "column_3", "Mobile"}, snap.Columns)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "Asha", snap.Rows[0].Values["Name"])
	assert.Equal(t, "Asha Margam", snap.Rows[0].Values["Name_2"])
	assert.Equal(t, "999", snap.Rows[0].Values["Mobile"])
}

func TestDecodeSnapshot_QuotedNewlines(t *testing.T) {
	input := "Student Name,Address\nAsha,\"12 Hill Road\nKochi\"\n"

	snap, err := DecodeSnapshot(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "12 Hill Road\nKochi", snap.Rows[0].Values["Address"])
}

// ============================================================================
// Benchmark Tests
// ============================================================================

func BenchmarkDecodeSnapshot(b *testing.B) {
	data := generateCSV(100)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		DecodeSnapshot(strings.NewReader(data))
	}
}

func BenchmarkDecodeSnapshot_Large(b *testing.B) {
	data := generateCSV(1000)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		DecodeSnapshot(strings.NewReader(data))
	}
}

// generateCSV builds registration-shaped CSV with the specified number
// of data rows.
func generateCSV(rows int) string {
	var sb strings.Builder
	sb.WriteString("Timestamp,Student Name,Email Address,Mobile Number,Parent Name,Parent Mobile Number,Address,Vehicle Number,Upload Photo\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb,
			"1/15/2024 10:30:00,Student %d,s%d@example.com,9%09d,Parent %d,8%09d,12 Beach Road,KL-07-AB-1234,https://drive.google.com/file/d/F%d/view\n",
			i, i, i, i, i, i)
	}
	return sb.String()
}
