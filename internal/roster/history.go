package roster

// history.go keeps a bounded in-memory record of completed sync runs so
// operators can answer "what changed lately" without any storage. The
// record is lost on restart; the sheet remains the source of truth, so
// the next scheduled run rebuilds everything that matters.

// historyCap bounds how many completed runs are retained. At the default
// fifteen-minute interval this covers roughly the last five hours.
const historyCap = 20

// recordResult appends a completed run, evicting the oldest entries
// beyond the cap.
func (s *Service) recordResult(result *SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, *result)
	if len(s.history) > historyCap {
		s.history = s.history[len(s.history)-historyCap:]
	}
}

// LastResult returns a copy of the most recent completed sync result, or
// nil if no sync has completed yet.
func (s *Service) LastResult() *SyncResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return nil
	}
	out := s.history[len(s.history)-1]
	return &out
}

// History returns copies of retained runs, newest first. A positive
// limit caps how many are returned; zero or negative returns everything
// retained.
func (s *Service) History(limit int) []SyncResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]SyncResult, 0, n)
	for i := len(s.history) - 1; i >= len(s.history)-n; i-- {
		out = append(out, s.history[i])
	}
	return out
}
