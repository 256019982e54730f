// Package queue batches spreadsheet writes. Appends for the same
// monthly tab are grouped into one API call, rows land in enqueue
// order, and a failed row never blocks its siblings. The queue is
// in-memory and suitable for a single bot instance.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status tracks a write request through its lifetime.
type Status string

const (
	StatusPending   Status = "pending"
	StatusWriting   Status = "writing"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrClosed is returned by Enqueue after Stop has begun.
var ErrClosed = errors.New("write queue is closed")

// ErrShutdown marks requests the queue could not drain before Stop's
// deadline.
var ErrShutdown = errors.New("write queue shut down before the request was written")

// WriteRequest is one pending row append.
type WriteRequest struct {
	// ID is the unique identifier for this request.
	ID string

	// Sheet is the target tab, normally a "MM/YYYY" partition key.
	Sheet string

	// Row holds the cell values in column order.
	Row []any

	// Status is the current state of the request.
	Status Status

	// CreatedAt is when the request was enqueued.
	CreatedAt time.Time

	done chan error
}

// Backend is the slice of the store the queue writes through.
type Backend interface {
	EnsureSheet(ctx context.Context, name string) error
	AppendRows(ctx context.Context, name string, rows [][]any) error
}

// Invalidator drops cached data for a sheet after a write lands on it.
type Invalidator interface {
	Invalidate(sheet string)
}

// Policy controls how pending requests are grouped into batches.
type Policy struct {
	// MaxBatchSize caps how many rows go into one append call.
	MaxBatchSize int
}

// DefaultPolicy matches the spreadsheet API's comfortable batch size.
var DefaultPolicy = Policy{MaxBatchSize: 20}

// Queue is the in-memory write batcher. Safe for concurrent use.
type Queue struct {
	backend Backend
	inv     Invalidator
	policy  Policy
	log     zerolog.Logger

	notify    chan struct{}
	closeChan chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	pending  []*WriteRequest
	draining bool
	closed   bool
}

// New creates a write queue over the backend. inv may be nil when no
// cache sits above the store.
func New(backend Backend, inv Invalidator, policy Policy, log zerolog.Logger) *Queue {
	if policy.MaxBatchSize <= 0 {
		policy.MaxBatchSize = DefaultPolicy.MaxBatchSize
	}
	return &Queue{
		backend:   backend,
		inv:       inv,
		policy:    policy,
		log:       log,
		notify:    make(chan struct{}, 1),
		closeChan: make(chan struct{}),
	}
}

// Start launches the drain worker. Call Stop to shut it down.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.mu.Unlock()

	q.wg.Add(1)
	go q.worker(ctx)
	return nil
}

// Enqueue queues one row for the sheet and returns a channel that
// reports the write result once the row lands or fails.
func (q *Queue) Enqueue(ctx context.Context, sheet string, row []any) (*WriteRequest, <-chan error, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, nil, ErrClosed
	}
	req := &WriteRequest{
		ID:        uuid.New().String(),
		Sheet:     sheet,
		Row:       row,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		done:      make(chan error, 1),
	}
	q.pending = append(q.pending, req)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return req, req.done, nil
}

// Submit enqueues the row and waits for its result.
func (q *Queue) Submit(ctx context.Context, sheet string, row []any) error {
	_, done, err := q.Enqueue(ctx, sheet, row)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports how many requests have not been written yet.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case <-q.notify:
			q.drainAll(ctx)
		}
	}
}

// drainAll writes batches until the queue is empty. Only one drain
// runs at a time; a second caller returns immediately.
func (q *Queue) drainAll(ctx context.Context) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	for {
		batch := q.takeBatch()
		if len(batch) == 0 {
			return
		}
		q.writeBatch(ctx, batch)
	}
}

// takeBatch removes up to MaxBatchSize requests targeting the same
// sheet as the oldest pending request, preserving enqueue order.
func (q *Queue) takeBatch() []*WriteRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	sheet := q.pending[0].Sheet

	var batch []*WriteRequest
	rest := q.pending[:0]
	for _, req := range q.pending {
		if req.Sheet == sheet && len(batch) < q.policy.MaxBatchSize {
			batch = append(batch, req)
			continue
		}
		rest = append(rest, req)
	}
	q.pending = rest
	return batch
}

// writeBatch appends a same-sheet batch in one call, falling back to
// per-row appends when the batch fails so one bad row cannot take its
// siblings down with it.
func (q *Queue) writeBatch(ctx context.Context, batch []*WriteRequest) {
	sheet := batch[0].Sheet
	for _, req := range batch {
		req.Status = StatusWriting
	}

	if err := q.backend.EnsureSheet(ctx, sheet); err != nil {
		q.log.Error().Err(err).Str("sheet", sheet).Msg("ensure sheet failed, retrying rows individually")
		q.writeIndividually(ctx, batch)
		return
	}

	rows := make([][]any, len(batch))
	for i, req := range batch {
		rows[i] = req.Row
	}

	if err := q.backend.AppendRows(ctx, sheet, rows); err != nil {
		q.log.Error().Err(err).Str("sheet", sheet).Int("rows", len(rows)).Msg("batch append failed, retrying rows individually")
		q.writeIndividually(ctx, batch)
		return
	}

	for _, req := range batch {
		q.finish(req, nil)
	}
	if q.inv != nil {
		q.inv.Invalidate(sheet)
	}
	q.log.Debug().Str("sheet", sheet).Int("rows", len(rows)).Msg("batch written")
}

func (q *Queue) writeIndividually(ctx context.Context, batch []*WriteRequest) {
	wrote := false
	for _, req := range batch {
		err := q.backend.AppendRows(ctx, req.Sheet, [][]any{req.Row})
		if err != nil {
			q.log.Error().Err(err).Str("sheet", req.Sheet).Str("request", req.ID).Msg("row append failed")
			q.finish(req, fmt.Errorf("append row: %w", err))
			continue
		}
		wrote = true
		q.finish(req, nil)
	}
	if wrote && q.inv != nil {
		q.inv.Invalidate(batch[0].Sheet)
	}
}

func (q *Queue) finish(req *WriteRequest, err error) {
	if err != nil {
		req.Status = StatusFailed
	} else {
		req.Status = StatusSucceeded
	}
	req.done <- err
}

// Stop refuses new requests, waits for the worker, then makes one
// final bounded drain attempt. Requests still pending after the
// deadline are failed with ErrShutdown and counted in the log.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	q.drainAll(ctx)

	q.mu.Lock()
	undrained := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(undrained) > 0 {
		q.log.Warn().Int("count", len(undrained)).Msg("writes left undrained at shutdown")
		for _, req := range undrained {
			q.finish(req, ErrShutdown)
		}
	}
	return nil
}
