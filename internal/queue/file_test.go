package queue

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/infoshield/infoshield/internal/model"
)

func newTestQueue(t *testing.T) *FileQueue {
	t.Helper()
	q, err := NewFileQueue(filepath.Join(t.TempDir(), "reviews.jsonl"))
	if err != nil {
		t.Fatalf("NewFileQueue: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func sampleRecord(text string) model.ReviewRecord {
	return model.ReviewRecord{
		QueryText:   text,
		Location:    "Chennai",
		Urgency:     2,
		Credibility: 35,
	}
}

func TestFileQueue_EnqueueAndList(t *testing.T) {
	q := newTestQueue(t)

	id, err := q.Enqueue(context.Background(), sampleRecord("flooding near the river?"))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if id == "" {
		t.Fatal("Enqueue returned empty id")
	}

	pending, err := q.List(model.ReviewPending)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending))
	}
	if pending[0].ID != id {
		t.Errorf("listed id = %s, want %s", pending[0].ID, id)
	}
	if pending[0].Status != model.ReviewPending {
		t.Errorf("status = %s, want PENDING", pending[0].Status)
	}
	if pending[0].EnqueuedAt.IsZero() {
		t.Error("EnqueuedAt not stamped")
	}
}

func TestFileQueue_ResolveTransitionsExactlyOnce(t *testing.T) {
	q := newTestQueue(t)

	id, err := q.Enqueue(context.Background(), sampleRecord("is the bridge collapsed?"))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	resolved, err := q.Resolve(id, "confirmed false by local authority")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != model.ReviewResolved {
		t.Errorf("status = %s, want RESOLVED", resolved.Status)
	}
	if resolved.ResolverNotes == "" || resolved.ResolvedAt == nil {
		t.Error("resolution fields not set")
	}

	// No longer pending, present under RESOLVED
	pending, _ := q.List(model.ReviewPending)
	if len(pending) != 0 {
		t.Errorf("len(pending) = %d after resolve, want 0", len(pending))
	}
	done, _ := q.List(model.ReviewResolved)
	if len(done) != 1 {
		t.Errorf("len(resolved) = %d, want 1", len(done))
	}

	// Second resolve fails and changes nothing
	if _, err := q.Resolve(id, "again"); !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("second resolve error = %v, want ErrAlreadyResolved", err)
	}
	done, _ = q.List(model.ReviewResolved)
	if len(done) != 1 || done[0].ResolverNotes != "confirmed false by local authority" {
		t.Error("failed resolve modified the queue")
	}
}

func TestFileQueue_ResolveUnknownID(t *testing.T) {
	q := newTestQueue(t)

	if _, err := q.Enqueue(context.Background(), sampleRecord("rumor of landslide")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	_, err := q.Resolve("IS-deadbeef", "notes")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(unknown) error = %v, want ErrNotFound", err)
	}

	all, _ := q.List("")
	if len(all) != 1 {
		t.Errorf("queue changed by failed resolve: %d records", len(all))
	}
}

func TestFileQueue_CancelledEnqueuePersistsNothing(t *testing.T) {
	q := newTestQueue(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.Enqueue(ctx, sampleRecord("any")); err == nil {
		t.Fatal("expected error for cancelled context")
	}

	all, _ := q.List("")
	if len(all) != 0 {
		t.Errorf("cancelled enqueue persisted %d record(s)", len(all))
	}
}

func TestFileQueue_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.jsonl")

	q, err := NewFileQueue(path)
	if err != nil {
		t.Fatalf("NewFileQueue: %v", err)
	}
	id, err := q.Enqueue(context.Background(), sampleRecord("cyclone rumor"))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	q.Close()

	reopened, err := NewFileQueue(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	pending, err := reopened.List(model.ReviewPending)
	if err != nil {
		t.Fatalf("List after reopen: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id {
		t.Errorf("record not durable across reopen: %+v", pending)
	}
}

func TestFileQueue_EnqueueSurvivesExternalResolve(t *testing.T) {
	// A reviewer process holds its own handle on the queue file. Its
	// resolve must not invalidate the pipeline's handle: enqueues after
	// the resolve still have to land in the live file.
	path := filepath.Join(t.TempDir(), "reviews.jsonl")

	core, err := NewFileQueue(path)
	if err != nil {
		t.Fatalf("NewFileQueue: %v", err)
	}
	defer core.Close()

	reviewer, err := NewFileQueue(path)
	if err != nil {
		t.Fatalf("NewFileQueue (reviewer): %v", err)
	}
	defer reviewer.Close()

	first, err := core.Enqueue(context.Background(), sampleRecord("is the dam holding?"))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	if _, err := reviewer.Resolve(first, "confirmed safe"); err != nil {
		t.Fatalf("external Resolve: %v", err)
	}

	second, err := core.Enqueue(context.Background(), sampleRecord("smoke over the hills"))
	if err != nil {
		t.Fatalf("Enqueue after external resolve: %v", err)
	}

	all, err := reviewer.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d after external resolve, want 2 (enqueue lost)", len(all))
	}

	byID := make(map[string]model.ReviewRecord, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	if byID[first].Status != model.ReviewResolved {
		t.Errorf("first record status = %s, want RESOLVED", byID[first].Status)
	}
	if got, ok := byID[second]; !ok {
		t.Error("record enqueued after external resolve is missing")
	} else if got.Status != model.ReviewPending {
		t.Errorf("second record status = %s, want PENDING", got.Status)
	}
}

func TestFileQueue_ResolveKeepsSingleVersionPerID(t *testing.T) {
	// Resolution appends a superseding line; reads must still return one
	// record per id, in its latest state.
	q := newTestQueue(t)

	id, err := q.Enqueue(context.Background(), sampleRecord("aftershock reports"))
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := q.Resolve(id, "verified"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	all, err := q.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want 1", len(all))
	}
	if all[0].Status != model.ReviewResolved || all[0].ResolverNotes != "verified" {
		t.Errorf("latest version not returned: %+v", all[0])
	}
}

func TestFileQueue_ConcurrentEnqueues(t *testing.T) {
	q := newTestQueue(t)

	const n = 50
	var wg sync.WaitGroup
	ids := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := q.Enqueue(context.Background(), sampleRecord(fmt.Sprintf("query %d", i)))
			if err != nil {
				t.Errorf("Enqueue %d: %v", i, err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	all, err := q.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != n {
		t.Fatalf("len(all) = %d, want %d", len(all), n)
	}

	seen := make(map[string]bool)
	for _, r := range all {
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}
