package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rosterd/rosterd/internal/roster"
)

// DecodeSnapshot reads an exported CSV stream into a roster snapshot.
//
// The first non-empty record is the header; its cleaned cells become the
// snapshot's column names in sheet order. Every record after the header
// consumes one 1-based line ordinal. Fully empty records keep their
// ordinal but produce no row, so member ids stay aligned with sheet
// positions. Cells beyond the header width are dropped.
//
// An empty stream decodes to an empty snapshot, not an error.
func DecodeSnapshot(r io.Reader) (*roster.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	snap := &roster.Snapshot{}

	// Header: the first non-empty record.
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return snap, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse roster sheet: %w", err)
		}
		if isEmptyRecord(rec) {
			continue
		}
		snap.Columns = headerColumns(rec)
		break
	}

	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return snap, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse roster sheet: %w", err)
		}

		line++
		if isEmptyRecord(rec) {
			continue
		}

		values := make(map[string]string, len(snap.Columns))
		for i, col := range snap.Columns {
			if i >= len(rec) {
				break
			}
			values[col] = cleanCell(rec[i])
		}

		snap.Rows = append(snap.Rows, roster.RawRow{Line: line, Values: values})
	}
}

// headerColumns cleans the header record into column names, keeping
// sheet order and original casing. Blank header cells and later copies
// of a duplicated name get a positional suffix so cell alignment never
// shifts.
func headerColumns(rec []string) []string {
	cols := make([]string, 0, len(rec))
	seen := make(map[string]bool, len(rec))
	for i, h := range rec {
		name := cleanCell(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		seen[name] = true
		cols = append(cols, name)
	}
	return cols
}

// isEmptyRecord reports whether every cell is blank.
func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanCell removes common export artifacts from a cell value:
//   - Trims whitespace
//   - Unwraps the Excel formula guard (="...")
//   - Removes surrounding quotes
func cleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return s
}
