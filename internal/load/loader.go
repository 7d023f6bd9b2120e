// Package load runs the four-stage ingestion pipeline that builds the
// aggregation store from the JSON exports in the data directory.
//
// Order is a correctness precondition, not an optimization: categories,
// products, and contacts populate the resolution indexes the sales stage
// joins against. The pipeline is strictly sequential and runs to completion
// or to the first fatal stage error; there is no partial-success state.
package load

import (
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arxi-lab/salescope/internal/store"
)

// stageLoader is one ingestion stage. The four implementations form a closed
// set dispatched in fixed order by the Loader; there is no registry to
// extend at runtime.
type stageLoader interface {
	stage() Stage
	filename() string
	load(st *store.Store, path string) error
}

var stages = []stageLoader{
	categoryLoader{},
	productLoader{},
	contactLoader{},
	salesLoader{},
}

// published pairs a completed store with the generation that produced it.
// The pair swaps through one atomic pointer so readers can never observe a
// store from one load run tagged with the generation of another.
type published struct {
	store      *store.Store
	generation uint64
}

// Loader orchestrates the ingestion stages and owns the published store.
// A load run builds a fresh store off to the side and swaps it in atomically
// only when every stage succeeded, so concurrent readers either see the
// previous complete store or the new one, never a half-built state.
type Loader struct {
	dataDir string

	mu      sync.Mutex // serializes load runs
	state   atomic.Int32
	current atomic.Pointer[published]
}

// New returns a Loader reading from dataDir. No data is touched until
// Initialize is called.
func New(dataDir string) *Loader {
	l := &Loader{dataDir: dataDir}
	l.state.Store(int32(StateNotStarted))
	return l
}

// Initialize runs the full four-stage load and publishes the resulting
// store. Calling it again rebuilds everything from scratch; there is no
// merge with the previous store. On a *StageError the previously published
// store (if any) stays in place and keeps serving queries.
func (l *Loader) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	runID := uuid.NewString()
	slog.Info("Starting data initialization", "run_id", runID, "dir", l.dataDir)

	st := store.New()
	for _, stg := range stages {
		l.state.Store(int32(loadingState(stg.stage())))

		started := time.Now()
		path := filepath.Join(l.dataDir, stg.filename())
		if err := stg.load(st, path); err != nil {
			l.state.Store(int32(StateFailed))
			slog.Error("Stage failed",
				"run_id", runID,
				"stage", stg.stage().String(),
				"error", err)
			return &StageError{Stage: stg.stage(), Err: err}
		}
		slog.Info("Stage complete",
			"run_id", runID,
			"stage", stg.stage().String(),
			"duration", time.Since(started))
	}

	gen := uint64(1)
	if prev := l.current.Load(); prev != nil {
		gen = prev.generation + 1
	}
	l.current.Store(&published{store: st, generation: gen})
	l.state.Store(int32(StateReady))

	slog.Info("Data initialization completed",
		"run_id", runID,
		"categories", st.NumCategories(),
		"products", st.NumProducts(),
		"contacts", st.NumContacts(),
		"sales", st.NumCountrySalesCells())
	return nil
}

// Snapshot returns the most recently published store together with its
// generation, read in a single atomic load. ok is false until the first
// successful Initialize.
func (l *Loader) Snapshot() (*store.Store, uint64, bool) {
	p := l.current.Load()
	if p == nil {
		return nil, 0, false
	}
	return p.store, p.generation, true
}

// Store returns the most recently published store. ok is false until the
// first successful Initialize.
func (l *Loader) Store() (*store.Store, bool) {
	st, _, ok := l.Snapshot()
	return st, ok
}

// State reports the orchestrator's lifecycle position.
func (l *Loader) State() State {
	return State(l.state.Load())
}

// Generation counts successful load runs. The HTTP layer keys its response
// cache on it so a reload invalidates stale entries without coordination.
func (l *Loader) Generation() uint64 {
	_, gen, _ := l.Snapshot()
	return gen
}
