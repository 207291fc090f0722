// internal/app/system/workers/tokencleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/accounts"
)

// TokenCleanup is a background worker that clears expired password-reset
// tokens. Expired tokens are already rejected at validation time, so this
// is hygiene, not enforcement.
type TokenCleanup struct {
	accounts *accounts.Manager
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewTokenCleanup creates a token cleanup worker that sweeps every interval.
func NewTokenCleanup(mgr *accounts.Manager, logger *zap.Logger, interval time.Duration) *TokenCleanup {
	return &TokenCleanup{
		accounts: mgr,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *TokenCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("token cleanup worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *TokenCleanup) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("token cleanup worker stopped")
}

func (w *TokenCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *TokenCleanup) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	w.accounts.ClearExpiredTokens(ctx)
}
