package workers_test

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/accounts"
	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/app/system/workers"
	"github.com/dalemusser/rollcall/internal/testutil"
)

func TestTokenCleanupSweepsExpiredTokens(t *testing.T) {
	db := testutil.SetupTestStore(t)
	f := testutil.NewFixtures(t, db)
	mgr := accounts.NewManager(db, accounts.DefaultConfig(), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateTeacher(ctx, "stale", "Str0ng!Pass", "stale@example.com", "Stale")
	if _, _, err := mgr.IssueResetToken(ctx, "stale@example.com"); err != nil {
		t.Fatalf("IssueResetToken: %v", err)
	}
	f.PatchUser(ctx, "stale", docstore.Set{"token_expiry": time.Now().UTC().Add(-time.Hour)})

	w := workers.NewTokenCleanup(mgr, zap.NewNop(), 10*time.Millisecond)
	w.Start()
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if u := f.LoadUser(ctx, "stale"); u.ResetToken == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expired token not swept before deadline")
}

func TestTokenCleanupStopTerminates(t *testing.T) {
	db := testutil.SetupTestStore(t)
	mgr := accounts.NewManager(db, accounts.DefaultConfig(), zap.NewNop())

	w := workers.NewTokenCleanup(mgr, zap.NewNop(), time.Hour)
	w.Start()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
