// Package store provides the roster write backend.
//
// The academy's member records live in a managed system this service
// must not mutate directly. [Sim] stands in for that system: every call
// logs like a real backend write and then succeeds without persisting
// anything, so sync cycles can run end to end against live sheets with
// zero side effects. The method signatures match what a persisting
// backend would expose, so swapping one in later is a constructor
// change, not an interface change.
package store

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rosterd/rosterd/internal/roster"
)

// Sim is the simulated roster backend.
type Sim struct {
	log     *slog.Logger
	latency time.Duration

	adds    atomic.Int64
	updates atomic.Int64
}

// Config tunes the simulation.
type Config struct {
	// Latency is an artificial per-call delay approximating a real
	// backend round trip. Zero means no delay.
	Latency time.Duration
}

// NewSim creates a simulated backend.
func NewSim(cfg Config, log *slog.Logger) *Sim {
	if log == nil {
		log = slog.Default()
	}
	return &Sim{
		log:     log,
		latency: cfg.Latency,
	}
}

// AddMember simulates creating a member and returns the id the backend
// would have assigned. Nothing is stored.
func (s *Sim) AddMember(ctx context.Context, m roster.NewMember) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}

	id := "sim-" + uuid.NewString()
	s.adds.Add(1)
	s.log.Info("simulated member add",
		"assigned_id", id,
		"name", m.Name,
		"mobile", m.Mobile,
	)
	return id, nil
}

// UpdateMember simulates patching an existing member. Nothing is stored.
func (s *Sim) UpdateMember(ctx context.Context, id string, patch roster.MemberPatch) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.updates.Add(1)
	s.log.Info("simulated member update", "id", id)
	return nil
}

// AddCount reports how many adds the simulation has accepted.
func (s *Sim) AddCount() int64 {
	return s.adds.Load()
}

// UpdateCount reports how many updates the simulation has accepted.
func (s *Sim) UpdateCount() int64 {
	return s.updates.Load()
}

// wait applies the configured latency, honoring cancellation the way a
// real backend call would.
func (s *Sim) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.latency)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
