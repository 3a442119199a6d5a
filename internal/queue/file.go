package queue

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/infoshield/infoshield/internal/model"
)

// FileQueue is an append-only JSONL review store: one record per line,
// appended under a mutex and fsynced before the call returns. Resolve
// appends a new version of the record rather than rewriting the file, so
// several handles on the same path (a batch run plus an external
// reviewer process) never invalidate each other, and earlier versions
// remain as audit history. Reads keep the last version per id.
type FileQueue struct {
	path string
	mu   sync.Mutex
	file *os.File // append handle, kept open between enqueues
}

// NewFileQueue opens (creating if needed) the queue file at path
func NewFileQueue(path string) (*FileQueue, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create queue dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open queue file: %w", err)
	}

	return &FileQueue{path: path, file: f}, nil
}

// Close releases the append handle
func (q *FileQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.file.Close()
}

// Enqueue assigns an id, stamps the record PENDING and appends it.
// The write is flushed to stable storage before the id is returned.
func (q *FileQueue) Enqueue(ctx context.Context, record model.ReviewRecord) (string, error) {
	// Cancellation checked before the commit point; after the append
	// the record stands regardless of the caller's context.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	record.ID = newReviewID()
	record.Status = model.ReviewPending
	if record.EnqueuedAt.IsZero() {
		record.EnqueuedAt = time.Now().UTC()
	}
	record.ResolverNotes = ""
	record.ResolvedAt = nil

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.append(record); err != nil {
		return "", err
	}

	return record.ID, nil
}

// append writes one record as a JSONL line through the O_APPEND handle
// and flushes it to stable storage. Caller holds the mutex.
func (q *FileQueue) append(record model.ReviewRecord) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if _, err := q.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := q.file.Sync(); err != nil {
		return fmt.Errorf("sync queue file: %w", err)
	}

	return nil
}

// List returns records in enqueue order, optionally filtered by status
func (q *FileQueue) List(status model.ReviewStatus) ([]model.ReviewRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	records, err := q.load()
	if err != nil {
		return nil, err
	}

	if status == "" {
		return records, nil
	}

	filtered := records[:0]
	for _, r := range records {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Resolve transitions id from PENDING to RESOLVED. The resolution is
// persisted as an appended superseding version of the record; the
// original entry stays in the file as audit history.
func (q *FileQueue) Resolve(id, notes string) (model.ReviewRecord, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	records, err := q.load()
	if err != nil {
		return model.ReviewRecord{}, err
	}

	found := -1
	for i, r := range records {
		if r.ID == id {
			found = i
			break
		}
	}
	if found < 0 {
		return model.ReviewRecord{}, fmt.Errorf("resolve %s: %w", id, ErrNotFound)
	}
	if records[found].Status == model.ReviewResolved {
		return model.ReviewRecord{}, fmt.Errorf("resolve %s: %w", id, ErrAlreadyResolved)
	}

	now := time.Now().UTC()
	records[found].Status = model.ReviewResolved
	records[found].ResolverNotes = notes
	records[found].ResolvedAt = &now

	if err := q.append(records[found]); err != nil {
		return model.ReviewRecord{}, err
	}

	return records[found], nil
}

// load reads every record from the file. A record id appearing more than
// once keeps the last occurrence.
func (q *FileQueue) load() ([]model.ReviewRecord, error) {
	f, err := os.Open(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open queue file: %w", err)
	}
	defer f.Close()

	var records []model.ReviewRecord
	index := make(map[string]int)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record model.ReviewRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			// A torn or corrupt line is skipped, not fatal: the queue
			// must keep serving the intact records around it.
			continue
		}

		if i, seen := index[record.ID]; seen {
			records[i] = record
			continue
		}
		index[record.ID] = len(records)
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queue file: %w", err)
	}

	return records, nil
}

// newReviewID generates a short review reference, e.g. "IS-4f9a21bc"
func newReviewID() string {
	return "IS-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
