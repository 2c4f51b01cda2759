package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/metrics"
)

// SyncTimeout is the maximum duration for one sync cycle.
var SyncTimeout = 2 * time.Minute

// Service provides the core business logic for roster synchronization.
// It owns the in-memory roster cache and serializes sync runs.
type Service struct {
	fetcher Fetcher
	writer  Writer
	cache   *Cache
	metrics *metrics.Metrics
	log     *slog.Logger
	gate    *syncGate

	mu      sync.RWMutex
	history []SyncResult
}

// NewService creates a new Service instance.
func NewService(fetcher Fetcher, writer Writer, m *metrics.Metrics, log *slog.Logger) *Service {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		fetcher: fetcher,
		writer:  writer,
		cache:   NewCache(),
		metrics: m,
		log:     log,
		gate:    newSyncGate(),
	}
}

// Sync runs one fetch-convert-mirror cycle and returns its result.
//
// Only one sync runs at a time; a concurrent call returns ErrSyncRunning
// immediately without queueing. A fetch or decode failure aborts the run
// with a wrapped error and leaves the cache and last result untouched.
// Row-level problems never abort: unusable rows are skipped with a
// reason, and backend write failures are logged and counted out.
func (s *Service) Sync(ctx context.Context) (*SyncResult, error) {
	if !s.gate.TryAcquire() {
		return nil, ErrSyncRunning
	}
	defer s.gate.Release()

	runID := uuid.New().String()
	start := time.Now()
	log := s.log.With("run_id", runID)

	s.metrics.RecordSyncStart()
	log.Info("sync started")

	syncCtx, cancel := context.WithTimeout(ctx, SyncTimeout)
	defer cancel()

	snap, err := s.fetcher.Fetch(syncCtx)
	if err != nil {
		s.metrics.RecordSyncFailure()
		log.Error("sync failed", "error", err)
		return nil, err
	}

	members, skipped := Convert(snap, start)
	for _, sk := range skipped {
		log.Warn("row skipped", "line", sk.Line, "reason", sk.Reason)
	}

	added, updated := s.mirror(syncCtx, log, members)

	s.cache.ReplaceAll(members, time.Now())

	result := &SyncResult{
		RunID:      runID,
		StartedAt:  start,
		DurationMs: time.Since(start).Milliseconds(),
		RowCount:   len(snap.Rows),
		Imported:   len(members),
		Added:      added,
		Updated:    updated,
		Skipped:    skipped,
	}

	s.recordResult(result)

	s.metrics.RecordRows(result.RowCount, len(skipped))
	s.metrics.RecordWrites(added, updated)
	s.metrics.SetRosterSize(s.cache.Len())
	s.metrics.RecordSyncSuccess(time.Since(start))

	log.Info("sync complete",
		"rows", result.RowCount,
		"imported", result.Imported,
		"added", added,
		"updated", updated,
		"skipped", len(skipped),
		"duration_ms", result.DurationMs,
	)

	return result, nil
}

// mirror pushes converted members into the backend. Members already in
// the cache become updates, new ones become adds. Write failures are
// logged and excluded from the counts; they never abort the run.
func (s *Service) mirror(ctx context.Context, log *slog.Logger, members []Member) (added, updated int) {
	for _, m := range members {
		if s.cache.Contains(m.ID) {
			if err := s.writer.UpdateMember(ctx, m.ID, PatchOf(m)); err != nil {
				log.Error("update member failed", "id", m.ID, "error", err)
				continue
			}
			updated++
		} else {
			if _, err := s.writer.AddMember(ctx, NewMemberOf(m)); err != nil {
				log.Error("add member failed", "id", m.ID, "error", err)
				continue
			}
			added++
		}
	}
	return added, updated
}

// Members returns the cached roster in sheet order.
func (s *Service) Members() []Member {
	return s.cache.All()
}

// Member looks up one cached member by id.
func (s *Service) Member(id string) (Member, error) {
	m, ok := s.cache.Get(id)
	if !ok {
		return Member{}, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return m, nil
}

// MemberCount returns the cached roster size.
func (s *Service) MemberCount() int {
	return s.cache.Len()
}

// SyncedAt returns when the cache was last replaced. Zero before the
// first sync.
func (s *Service) SyncedAt() time.Time {
	return s.cache.SyncedAt()
}

// Busy reports whether a sync is currently in flight.
func (s *Service) Busy() bool {
	return s.gate.Busy()
}

// Drain blocks until an in-flight sync completes or ctx is cancelled.
func (s *Service) Drain(ctx context.Context) error {
	return s.gate.WaitForDrain(ctx)
}

// Convert builds members from a snapshot, strictly in sheet order. Rows
// that cannot produce a member are reported in the skip list with their
// line and reason; conversion itself never fails. An empty snapshot
// yields empty results.
func Convert(snap *Snapshot, now time.Time) ([]Member, []SkippedRow) {
	members := make([]Member, 0, len(snap.Rows))
	var skipped []SkippedRow

	for _, row := range snap.Rows {
		m, reason := convertRow(row, snap.Columns, now)
		if reason != "" {
			skipped = append(skipped, SkippedRow{Line: row.Line, Reason: reason})
			continue
		}
		members = append(members, m)
	}

	return members, skipped
}

// convertRow normalizes and builds a single row. A panic while handling
// one row is contained here and degrades to a skip so the remaining rows
// still convert.
func convertRow(row RawRow, columns []string, now time.Time) (m Member, reason string) {
	defer func() {
		if r := recover(); r != nil {
			m = Member{}
			reason = fmt.Sprintf("row processing panicked: %v", r)
		}
	}()

	fields := Normalize(row, columns)
	return BuildMember(row.Line, fields, now)
}
