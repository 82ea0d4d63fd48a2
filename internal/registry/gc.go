package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/groundlang/ground/pkg/logging"
)

// GCRunner periodically invokes Badger's value-log garbage collection
// on a background goroutine: a small owned-goroutine runner with
// Start/Stop rather than a bare time.Ticker scattered through caller
// code.
type GCRunner struct {
	db       *badger.DB
	interval time.Duration
	ratio    float64
	logger   *logging.Logger

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewGCRunner validates its arguments and returns a runner that has
// not yet been started.
func NewGCRunner(db *badger.DB, interval time.Duration, ratio float64, logger *logging.Logger) (*GCRunner, error) {
	if db == nil {
		return nil, fmt.Errorf("registry: db must not be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("registry: interval must be positive")
	}
	if ratio <= 0 || ratio > 1 {
		return nil, fmt.Errorf("registry: ratio must be between 0 and 1")
	}
	return &GCRunner{
		db:       db,
		interval: interval,
		ratio:    ratio,
		logger:   logger,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start launches the background GC loop. Safe to call once.
func (r *GCRunner) Start() {
	go r.loop()
}

func (r *GCRunner) loop() {
	defer close(r.stopped)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			for {
				err := r.db.RunValueLogGC(r.ratio)
				if err != nil {
					if err != badger.ErrNoRewrite && r.logger != nil {
						r.logger.Warn("value log gc failed", "error", err)
					}
					break
				}
			}
		}
	}
}

// Stop signals the GC loop to exit and waits for it to finish.
func (r *GCRunner) Stop() {
	r.once.Do(func() {
		close(r.stop)
	})
	<-r.stopped
}
