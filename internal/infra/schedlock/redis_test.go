package schedlock

import (
	"context"
	"testing"
	"time"

	"github.com/nonthaphat-dev/lendwatch/internal/testutil"
)

func TestRedisLeaseMutualExclusion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	first := NewRedisLease(client, time.Minute)
	second := NewRedisLease(client, time.Minute)

	held, err := first.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !held {
		t.Fatal("first acquire should succeed on an empty lease")
	}

	held, err = second.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if held {
		t.Error("second holder acquired a taken lease")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	held, err = second.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if !held {
		t.Error("lease not acquirable after release")
	}
}

func TestRedisLeaseReleaseIsScopedToHolder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	holder := NewRedisLease(client, time.Minute)
	intruder := NewRedisLease(client, time.Minute)

	if held, err := holder.TryAcquire(ctx); err != nil || !held {
		t.Fatalf("setup acquire: held=%v err=%v", held, err)
	}

	// A non-holder releasing must not free the holder's lease.
	if err := intruder.Release(ctx); err != nil {
		t.Fatalf("intruder release: %v", err)
	}

	held, err := intruder.TryAcquire(ctx)
	if err != nil {
		t.Fatalf("intruder acquire: %v", err)
	}
	if held {
		t.Error("lease was stolen after a foreign release")
	}
}
