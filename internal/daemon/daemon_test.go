package daemon

import (
	"context"
	"strings"
	"testing"

	"clipcast/internal/logging"
	"clipcast/internal/registry"
	"clipcast/internal/stage"
	"clipcast/internal/testsupport"
	"clipcast/internal/workflow"
)

type nopHandler struct{ name string }

func (h nopHandler) Prepare(ctx context.Context, job *registry.Job) error { return nil }

func (h nopHandler) Execute(ctx context.Context, job *registry.Job) error { return nil }

func (h nopHandler) HealthCheck(ctx context.Context) stage.Health { return stage.Healthy(h.name) }

func newDaemon(t *testing.T) (*Daemon, *registry.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, logging.NewNop())
	manager.ConfigureStages(workflow.StageSet{
		Probe:      nopHandler{"probe"},
		Analysis:   nopHandler{"analysis"},
		Extraction: nopHandler{"extraction"},
		Planning:   nopHandler{"planning"},
	})
	return New(cfg, store, manager, logging.NewNop()), store
}

func TestStartFailsOrphanedJobs(t *testing.T) {
	d, store := newDaemon(t)

	orphan := testsupport.NewJob(t, store, "orphan")
	if _, err := store.ClaimNextSubmitted(t.Context()); err != nil {
		t.Fatal(err)
	}

	if err := d.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	job, err := store.GetJob(t.Context(), orphan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != registry.StatusError {
		t.Fatalf("orphan status = %s", job.Status)
	}
	if !strings.Contains(job.ErrorMessage, "daemon restarted") {
		t.Fatalf("orphan message = %q", job.ErrorMessage)
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	newManager := func() *workflow.Manager {
		m := workflow.NewManager(cfg, store, logging.NewNop())
		m.ConfigureStages(workflow.StageSet{
			Probe:      nopHandler{"probe"},
			Analysis:   nopHandler{"analysis"},
			Extraction: nopHandler{"extraction"},
			Planning:   nopHandler{"planning"},
		})
		return m
	}

	first := New(cfg, store, newManager(), logging.NewNop())
	if err := first.Start(t.Context()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer first.Stop()

	second := New(cfg, store, newManager(), logging.NewNop())
	err := second.Start(t.Context())
	if err == nil {
		second.Stop()
		t.Fatal("second instance acquired the lock")
	}
	if !strings.Contains(err.Error(), "another clipcastd instance") {
		t.Fatalf("error = %v", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d, _ := newDaemon(t)
	if err := d.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d.Stop()
	d.Stop()
}
