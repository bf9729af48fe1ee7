package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRefresher struct {
	calls     atomic.Int32
	refreshed bool
	err       error
	window    time.Duration
}

func (f *fakeRefresher) RefreshIfExpiring(_ context.Context, window time.Duration) (bool, error) {
	f.calls.Add(1)
	f.window = window
	return f.refreshed, f.err
}

func TestSessionRefreshJobLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	refresher := &fakeRefresher{err: errors.New("boom")}

	NewSessionRefreshJob(refresher, 10*time.Minute, zap.New(core)).Run()

	if refresher.calls.Load() != 1 {
		t.Fatalf("expected one refresh attempt, got %d", refresher.calls.Load())
	}
	if refresher.window != 10*time.Minute {
		t.Fatalf("window not forwarded: %v", refresher.window)
	}
	if logs.FilterMessage("session refresh failed").Len() != 1 {
		t.Fatalf("expected failure to be logged, got %v", logs.All())
	}
}

func TestSessionRefreshJobLogsSuccess(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	refresher := &fakeRefresher{refreshed: true}

	NewSessionRefreshJob(refresher, time.Minute, zap.New(core)).Run()

	if logs.FilterMessage("session token refreshed").Len() != 1 {
		t.Fatalf("expected refresh to be logged, got %v", logs.All())
	}
}

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	if err := s.AddJob("not a spec", func() {}); err == nil {
		t.Fatal("expected invalid spec to be rejected")
	}
}

func TestSchedulerRunsRefreshJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	refresher := &fakeRefresher{}
	if err := StartSessionRefresh(s, "@every 1s", NewSessionRefreshJob(refresher, time.Minute, nil)); err != nil {
		t.Fatalf("register job: %v", err)
	}

	s.Start()
	defer s.Stop(time.Second)

	deadline := time.Now().Add(3 * time.Second)
	for refresher.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("refresh job never ran")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
