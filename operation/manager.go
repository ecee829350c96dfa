package operation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hugr-lab/hivemeta-go/catalog"
	"github.com/hugr-lab/hivemeta-go/executor"
	"github.com/hugr-lab/hivemeta-go/internal/recovery"
	"github.com/hugr-lab/hivemeta-go/result"
)

// Options configures a Manager.
type Options struct {
	// MaxOperations bounds the operations running at once. Zero means unbounded.
	MaxOperations int

	// Logger receives lifecycle events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Info is a snapshot of an operation.
type Info struct {
	Handle    Handle
	Session   catalog.SessionHandle
	Name      string
	State     State
	StartedAt time.Time
	Err       error
}

// Manager tracks submitted operations. It is safe for concurrent use.
type Manager struct {
	logger *slog.Logger
	slots  chan struct{} // nil when unbounded

	mu  sync.Mutex
	ops map[Handle]*op
}

// op is the bookkeeping of one submitted executor.
type op struct {
	handle    Handle
	session   catalog.SessionHandle
	name      string
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	mu        sync.Mutex
	state     State
	canceled  bool
	resultSet *result.ResultSet
	err       error
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger: logger,
		ops:    make(map[Handle]*op),
	}
	if opts.MaxOperations > 0 {
		m.slots = make(chan struct{}, opts.MaxOperations)
	}
	return m
}

// Submit starts exec for session and returns the handle of the new operation.
// name labels the operation in logs and Info. The operation keeps the values of
// ctx (identity, trace id) but not its cancellation: it outlives the submitting
// request and ends on Cancel, Close or completion.
func (m *Manager) Submit(ctx context.Context, session catalog.SessionHandle, name string, exec executor.Executor) (Handle, error) {
	if m.slots != nil {
		select {
		case m.slots <- struct{}{}:
		default:
			return Handle{}, ErrTooManyOperations
		}
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	o := &op{
		handle:    NewHandle(),
		session:   session,
		name:      name,
		startedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     StateRunning,
	}

	m.mu.Lock()
	m.ops[o.handle] = o
	m.mu.Unlock()

	m.logger.Debug("Operation submitted",
		"operation", name,
		"handle", o.handle.String(),
		"session", session.String())

	go m.run(ctx, o, exec)
	return o.handle, nil
}

func (m *Manager) run(ctx context.Context, o *op, exec executor.Executor) {
	defer close(o.done)
	defer o.cancel()
	if m.slots != nil {
		defer func() { <-m.slots }()
	}

	rs, err := recovery.GuardValue(m.logger, o.name, func() (*result.ResultSet, error) {
		return exec(ctx)
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	switch {
	case o.state == StateClosed:
		// Closed while running; the result is discarded.
		return
	case o.canceled:
		o.state = StateCanceled
		o.err = ErrOperationCanceled
	case err != nil:
		o.state = StateFailed
		o.err = err
	default:
		o.state = StateFinished
		o.resultSet = rs
	}

	if o.state == StateFailed {
		m.logger.Error("Operation failed",
			"operation", o.name,
			"handle", o.handle.String(),
			"error", o.err)
		return
	}
	m.logger.Debug("Operation completed",
		"operation", o.name,
		"handle", o.handle.String(),
		"state", o.state.String(),
		"duration", time.Since(o.startedAt))
}

func (m *Manager) lookup(handle Handle) (*op, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.ops[handle]
	if !ok {
		return nil, ErrOperationNotFound
	}
	return o, nil
}

// Status returns the current state of an operation.
func (m *Manager) Status(handle Handle) (State, error) {
	o, err := m.lookup(handle)
	if err != nil {
		return 0, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, nil
}

// Info returns a snapshot of an operation.
func (m *Manager) Info(handle Handle) (Info, error) {
	o, err := m.lookup(handle)
	if err != nil {
		return Info{}, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return Info{
		Handle:    o.handle,
		Session:   o.session,
		Name:      o.name,
		State:     o.state,
		StartedAt: o.startedAt,
		Err:       o.err,
	}, nil
}

// Fetch waits for the operation to complete and returns its result set, or
// the executor's error unchanged. It returns ctx.Err() if ctx is done first.
// Fetching does not close the operation; the result can be fetched again.
func (m *Manager) Fetch(ctx context.Context, handle Handle) (*result.ResultSet, error) {
	o, err := m.lookup(handle)
	if err != nil {
		return nil, err
	}

	select {
	case <-o.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateClosed {
		return nil, ErrOperationClosed
	}
	return o.resultSet, o.err
}

// Cancel cancels a running operation. Canceling a completed operation is a no-op.
func (m *Manager) Cancel(handle Handle) error {
	o, err := m.lookup(handle)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateRunning {
		return nil
	}
	o.canceled = true
	o.cancel()

	m.logger.Debug("Operation canceled", "operation", o.name, "handle", handle.String())
	return nil
}

// Close releases an operation and its result. A running operation is canceled.
func (m *Manager) Close(handle Handle) error {
	m.mu.Lock()
	o, ok := m.ops[handle]
	delete(m.ops, handle)
	m.mu.Unlock()

	if !ok {
		return ErrOperationNotFound
	}
	m.release(o)
	return nil
}

// CloseSession closes every operation of session and returns how many were closed.
func (m *Manager) CloseSession(session catalog.SessionHandle) int {
	m.mu.Lock()
	var closed []*op
	for handle, o := range m.ops {
		if o.session == session {
			closed = append(closed, o)
			delete(m.ops, handle)
		}
	}
	m.mu.Unlock()

	for _, o := range closed {
		m.release(o)
	}
	if len(closed) > 0 {
		m.logger.Debug("Session operations closed", "session", session.String(), "count", len(closed))
	}
	return len(closed)
}

// CloseAll closes every operation. Used on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ops := m.ops
	m.ops = make(map[Handle]*op)
	m.mu.Unlock()

	for _, o := range ops {
		m.release(o)
	}
}

// Len returns the number of operations not yet closed.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ops)
}

func (m *Manager) release(o *op) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateClosed
	o.resultSet = nil
	o.err = nil
	o.cancel()
}
