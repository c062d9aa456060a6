package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/program-selection/internal/model"
)

// Seed modes.
const (
	ModeEnsure = "ensure" // write only when the stored catalog differs from the seed list
	ModeReset  = "reset"  // always delete and reinsert
)

// ErrSeedInProgress is returned when another initializer holds the seed lock.
var ErrSeedInProgress = errors.New("catalog seed already in progress")

// Store is the slice of the program repository the initializer needs.
type Store interface {
	ListAll(ctx context.Context) ([]model.Program, error)
	ReplaceAll(ctx context.Context, programs []model.Program) error
}

// Locker guards the initializer across processes.  Acquire returns
// ErrSeedInProgress when the lock is held elsewhere.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Purger drops cached program responses after the catalog changes.
type Purger interface {
	Purge(ctx context.Context) error
}

// Result describes what a Run did.
type Result struct {
	Mode     string
	Replaced bool // false when the stored catalog already matched
	Count    int  // programs in the catalog after the run
}

// Seeder resets the catalog to the seed list.  It must finish before the
// HTTP server starts.  Concurrent Run calls in one process are serialized;
// Lock, when set, extends the guard to other processes.
type Seeder struct {
	Store  Store
	Mode   string
	Lock   Locker // optional
	Purger Purger // optional
	Log    logrus.FieldLogger
	Now    func() time.Time

	mu sync.Mutex
}

// Run applies the configured mode.  In ensure mode a catalog that already
// matches the seed list is left untouched, so program ids stay stable across
// restarts.  Reset mode always replaces it, orphaning earlier selections.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := s.Mode
	if mode != ModeReset {
		mode = ModeEnsure
	}
	res := Result{Mode: mode}

	if s.Lock != nil {
		release, err := s.Lock.Acquire(ctx)
		if err != nil {
			return res, err
		}
		defer release()
	}

	if mode == ModeEnsure {
		stored, err := s.Store.ListAll(ctx)
		if err != nil {
			return res, fmt.Errorf("read catalog: %w", err)
		}
		if Matches(stored) {
			res.Count = len(stored)
			s.logger().WithFields(logrus.Fields{"mode": mode, "count": res.Count}).Info("catalog already seeded")
			return res, nil
		}
	}

	batch := Batch(s.now().UTC())
	if err := s.Store.ReplaceAll(ctx, batch); err != nil {
		return res, fmt.Errorf("replace catalog: %w", err)
	}
	res.Replaced = true
	res.Count = len(batch)

	if s.Purger != nil {
		if err := s.Purger.Purge(ctx); err != nil {
			s.logger().WithError(err).Warn("purge cached programs failed")
		}
	}
	s.logger().WithFields(logrus.Fields{"mode": mode, "count": res.Count}).Info("catalog seeded")
	return res, nil
}

func (s *Seeder) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Seeder) logger() logrus.FieldLogger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}
