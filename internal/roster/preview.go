package roster

// preview.go implements the read-only dry run behind the sync preview
// endpoint: fetch and convert the sheet exactly as a sync would, then
// report what that sync would change. Nothing here touches the writer,
// the cache, or the recorded results, so operators can check a
// re-worded form against the field table before letting a real sync
// loose.

import (
	"context"
	"time"
)

// Sample limits keep preview responses small even for large sheets.
const (
	maxNewSamples       = 10
	maxUpdateSamples    = 10
	maxSkipSamples      = 20
	maxDuplicateSamples = 10
)

// PreviewSummary counts what a sync of the current sheet would do.
type PreviewSummary struct {
	TotalRows        int `json:"totalRows"`
	NewMembers       int `json:"newMembers"`
	UpdatedMembers   int `json:"updatedMembers"`
	SkippedRows      int `json:"skippedRows"`
	DuplicateMobiles int `json:"duplicateMobiles"`
}

// MemberPreview is one member as a sync would import it.
type MemberPreview struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// DuplicatePreview lists the members sharing one mobile number, in
// sheet order. Usually the same person registering through the form
// twice.
type DuplicatePreview struct {
	Mobile string   `json:"mobile"`
	IDs    []string `json:"ids"`
}

// PreviewResult is the complete dry-run report.
type PreviewResult struct {
	Summary          PreviewSummary     `json:"summary"`
	NewSamples       []MemberPreview    `json:"newSamples,omitempty"`
	UpdateSamples    []MemberPreview    `json:"updateSamples,omitempty"`
	SkipSamples      []SkippedRow       `json:"skipSamples,omitempty"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples,omitempty"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Preview performs a read-only analysis of the published sheet.
//
// It fetches and converts rows with the same code path as Sync, then
// classifies each converted member against the current cache: members
// whose id is already cached would be updates, the rest adds. Rows that
// would be skipped and mobile numbers appearing more than once are
// reported with bounded samples. Fetch and parse failures propagate the
// same way Sync's do.
//
// Preview does not take the sync gate; it may run alongside a sync, in
// which case the classification reflects whichever cache state it
// observes.
func (s *Service) Preview(ctx context.Context) (*PreviewResult, error) {
	start := time.Now()

	previewCtx, cancel := context.WithTimeout(ctx, SyncTimeout)
	defer cancel()

	snap, err := s.fetcher.Fetch(previewCtx)
	if err != nil {
		return nil, err
	}

	members, skipped := Convert(snap, start)

	resp := &PreviewResult{
		Summary: PreviewSummary{
			TotalRows:   len(snap.Rows),
			SkippedRows: len(skipped),
		},
	}

	// First pass: member ids per mobile, in sheet order.
	byMobile := make(map[string][]string)
	for _, m := range members {
		byMobile[m.Mobile] = append(byMobile[m.Mobile], m.ID)
	}

	for _, m := range members {
		sample := MemberPreview{ID: m.ID, Name: m.Name, Mobile: m.Mobile}

		if s.cache.Contains(m.ID) {
			resp.Summary.UpdatedMembers++
			if len(resp.UpdateSamples) < maxUpdateSamples {
				resp.UpdateSamples = append(resp.UpdateSamples, sample)
			}
		} else {
			resp.Summary.NewMembers++
			if len(resp.NewSamples) < maxNewSamples {
				resp.NewSamples = append(resp.NewSamples, sample)
			}
		}
	}

	// Second pass over members, not the map, so duplicate reporting is
	// deterministic in sheet order.
	reported := make(map[string]bool)
	for _, m := range members {
		ids := byMobile[m.Mobile]
		if len(ids) < 2 || reported[m.Mobile] {
			continue
		}
		reported[m.Mobile] = true

		resp.Summary.DuplicateMobiles += len(ids) - 1
		if len(resp.DuplicateSamples) < maxDuplicateSamples {
			resp.DuplicateSamples = append(resp.DuplicateSamples, DuplicatePreview{
				Mobile: m.Mobile,
				IDs:    ids,
			})
		}
	}

	if len(skipped) > maxSkipSamples {
		skipped = skipped[:maxSkipSamples]
	}
	resp.SkipSamples = skipped

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}
