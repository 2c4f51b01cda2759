package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/config"
	"github.com/rosterd/rosterd/internal/metrics"
	"github.com/rosterd/rosterd/internal/roster"
	"github.com/rosterd/rosterd/internal/store"
	"github.com/rosterd/rosterd/internal/web"
)

func TestMain(m *testing.M) {
	// Request logging goes through the default logger.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	os.Exit(m.Run())
}

// ==================== Test Fixtures ====================

type stubFetcher struct {
	snap *roster.Snapshot
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context) (*roster.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

// blockingFetcher parks the first fetch until release is closed. Good
// for exactly one Fetch call.
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *blockingFetcher) Fetch(ctx context.Context) (*roster.Snapshot, error) {
	close(f.started)
	select {
	case <-f.release:
		return &roster.Snapshot{}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func registrationSnapshot(rows ...[2]string) *roster.Snapshot {
	snap := &roster.Snapshot{Columns: []string{"Student Name", "Mobile Number"}}
	for i, row := range rows {
		snap.Rows = append(snap.Rows, roster.RawRow{
			Line: i + 1,
			Values: map[string]string{
				"Student Name":  row[0],
				"Mobile Number": row[1],
			},
		})
	}
	return snap
}

func newTestServer(t *testing.T, f roster.Fetcher, apiKey string) *web.Server {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	m := metrics.New()
	svc := roster.NewService(f, store.NewSim(store.Config{}, log), m, log)

	cfg := &config.Config{
		Server:   config.ServerConfig{Addr: ":0"},
		Security: config.SecurityConfig{APIKey: apiKey},
	}
	return web.NewServer(svc, m, cfg)
}

func do(t *testing.T, srv *web.Server, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

// ==================== Health and Reads ====================

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{snap: &roster.Snapshot{}}, "")

	rec := do(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var health struct {
		Status      string `json:"status"`
		Members     int    `json:"members"`
		SyncRunning bool   `json:"syncRunning"`
	}
	decodeBody(t, rec, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Zero(t, health.Members)
	assert.False(t, health.SyncRunning)
}

func TestListMembers_EmptyBeforeFirstSync(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{snap: &roster.Snapshot{}}, "")

	rec := do(t, srv, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"members":[]`)
}

func TestGetMember_NotFound(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{snap: &roster.Snapshot{}}, "")

	rec := do(t, srv, http.MethodGet, "/api/members/csv-99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp web.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "ROSTER001", resp.Code)
}

func TestLastSync_BeforeAnySync(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{snap: &roster.Snapshot{}}, "")

	rec := do(t, srv, http.MethodGet, "/api/sync/last", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ==================== Sync Flow ====================

func TestSyncFlow(t *testing.T) {
	f := &stubFetcher{snap: registrationSnapshot(
		[2]string{"Asha", "9990001111"},
		[2]string{"", "8880002222"},
	)}
	srv := newTestServer(t, f, "")

	rec := do(t, srv, http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result roster.SyncResult
	decodeBody(t, rec, &result)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Added)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 2, result.Skipped[0].Line)
	assert.Equal(t, "name is empty", result.Skipped[0].Reason)

	// Reads now serve the mirrored roster.
	rec = do(t, srv, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Members []roster.Member `json:"members"`
		Count   int             `json:"count"`
	}
	decodeBody(t, rec, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "csv-1", list.Members[0].ID)
	assert.Equal(t, "Asha", list.Members[0].Name)

	rec = do(t, srv, http.MethodGet, "/api/members/csv-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var member roster.Member
	decodeBody(t, rec, &member)
	assert.Equal(t, "9990001111", member.Mobile)
	assert.Equal(t, "9990001111", member.ParentMobile)
	assert.Equal(t, roster.DefaultParentName, member.ParentName)
	assert.Equal(t, roster.StatusActive, member.Status)
	assert.Zero(t, member.PaymentsMade)

	rec = do(t, srv, http.MethodGet, "/api/sync/last", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var last roster.SyncResult
	decodeBody(t, rec, &last)
	assert.Equal(t, result.RunID, last.RunID)

	// Counters surface on the exposition endpoint.
	rec = do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rosterd_sync_runs_total 1")
	assert.Contains(t, rec.Body.String(), "rosterd_roster_members 1")
}

func TestSync_UpstreamFailure(t *testing.T) {
	f := &stubFetcher{err: fmt.Errorf("fetch roster sheet: %w", errors.New("connection refused"))}
	srv := newTestServer(t, f, "")

	rec := do(t, srv, http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp web.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "SHEET001", resp.Code)
	assert.NotEmpty(t, resp.Action)

	// Nothing completed, so there is still no last result.
	rec = do(t, srv, http.MethodGet, "/api/sync/last", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSync_ConflictWhileRunning(t *testing.T) {
	f := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	srv := newTestServer(t, f, "")

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))
		first <- rec
	}()

	<-f.started

	rec := do(t, srv, http.MethodPost, "/api/sync", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp web.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "SYNC001", resp.Code)

	close(f.release)

	select {
	case rec := <-first:
		assert.Equal(t, http.StatusOK, rec.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("first sync did not finish")
	}
}

func TestSyncHistory(t *testing.T) {
	f := &stubFetcher{snap: registrationSnapshot([2]string{"Asha", "9990001111"})}
	srv := newTestServer(t, f, "")

	// Empty before any sync, but still a JSON array.
	rec := do(t, srv, http.MethodGet, "/api/sync/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"runs":[]`)

	var runIDs []string
	for i := 0; i < 3; i++ {
		rec = do(t, srv, http.MethodPost, "/api/sync", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result roster.SyncResult
		decodeBody(t, rec, &result)
		runIDs = append(runIDs, result.RunID)
	}

	rec = do(t, srv, http.MethodGet, "/api/sync/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		Runs  []roster.SyncResult `json:"runs"`
		Count int                 `json:"count"`
	}
	decodeBody(t, rec, &history)
	require.Equal(t, 3, history.Count)
	assert.Equal(t, runIDs[2], history.Runs[0].RunID, "newest run should come first")
	assert.Equal(t, runIDs[0], history.Runs[2].RunID)

	rec = do(t, srv, http.MethodGet, "/api/sync/history?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &history)
	require.Equal(t, 1, history.Count)
	assert.Equal(t, runIDs[2], history.Runs[0].RunID)

	rec = do(t, srv, http.MethodGet, "/api/sync/history?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncPreview(t *testing.T) {
	f := &stubFetcher{snap: registrationSnapshot(
		[2]string{"Asha", "9990001111"},
		[2]string{"", "8880002222"},
	)}
	srv := newTestServer(t, f, "")

	rec := do(t, srv, http.MethodGet, "/api/sync/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var preview roster.PreviewResult
	decodeBody(t, rec, &preview)
	assert.Equal(t, 2, preview.Summary.TotalRows)
	assert.Equal(t, 1, preview.Summary.NewMembers)
	assert.Equal(t, 1, preview.Summary.SkippedRows)
	require.Len(t, preview.NewSamples, 1)
	assert.Equal(t, "csv-1", preview.NewSamples[0].ID)

	// A preview leaves the roster and the sync record untouched.
	rec = do(t, srv, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)

	rec = do(t, srv, http.MethodGet, "/api/sync/last", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyncPreview_UpstreamFailure(t *testing.T) {
	f := &stubFetcher{err: fmt.Errorf("fetch roster sheet: %w", errors.New("connection refused"))}
	srv := newTestServer(t, f, "")

	rec := do(t, srv, http.MethodGet, "/api/sync/preview", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp web.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "SHEET001", resp.Code)
}

// ==================== Auth ====================

func TestSync_APIKeyProtection(t *testing.T) {
	srv := newTestServer(t, &stubFetcher{snap: &roster.Snapshot{}}, "hunter2")

	rec := do(t, srv, http.MethodPost, "/api/sync", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/sync", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/sync", map[string]string{"X-API-Key": "hunter2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Reads stay open without a key.
	rec = do(t, srv, http.MethodGet, "/api/members", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
