package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/a88883284/iflow-sdk-bridge/pkg/backend"
)

// Request is the manager's plain-prompt boundary. Protocol adapters
// reduce inbound wire formats to this before calling Chat/ChatStream.
type Request struct {
	// Prompt is the single prompt string built by the adapter.
	Prompt string

	// Model is an optional per-call model override. Aliases are
	// resolved before it reaches the backend.
	Model string
}

// Chunk is one incremental unit of a streamed response.
type Chunk struct {
	// Role announces the assistant role on the first chunk.
	Role string

	// Delta is the incremental text in this chunk.
	Delta string

	// Done marks the terminal chunk.
	Done bool

	// StopReason is set on the terminal chunk ("stop").
	StopReason string

	// Err is set when the exchange failed mid-stream.
	Err error
}

// StopReasonStop marks normal completion on a terminal chunk.
const StopReasonStop = "stop"

// Stats is a read-only snapshot of the pacing state.
type Stats struct {
	// TotalRequests is the lifetime dispatch count.
	TotalRequests int64 `json:"total_requests"`

	// RequestsLastMinute is the dispatch count in the trailing window.
	RequestsLastMinute int `json:"requests_last_minute"`

	// SessionsCreated is how many backend sessions have been built.
	SessionsCreated int `json:"sessions_created"`

	// SessionAgeSeconds is the live session's age, 0 when disconnected.
	SessionAgeSeconds int64 `json:"session_age_seconds"`
}

// Config configures a Manager.
type Config struct {
	// DefaultModel is selected on connect when a call has no override.
	DefaultModel string

	// Aliases maps legacy model names to backend models. Unknown names
	// pass through unchanged.
	Aliases map[string]string

	// ResponseTimeout bounds the wait for one backend response. A hang
	// past it fails that call and tears the session down. Zero
	// disables the bound.
	ResponseTimeout time.Duration

	// Sanitize, when set, filters assistant text before it leaves the
	// manager.
	Sanitize func(string) string

	// ObserveWait, when set, receives every pacing delay that was
	// actually slept. Used to feed metrics.
	ObserveWait func(time.Duration)

	// Logger receives the manager's log lines. Pass a Warn-level
	// logger to silence the informational pacing/rotation lines.
	Logger *slog.Logger
}

// connectAttempt is the shared in-flight marker for EnsureConnected.
// Every caller that arrives while a connect is running waits on the same
// attempt instead of starting its own.
type connectAttempt struct {
	done chan struct{}
	err  error
}

// Manager composes the pacing policy and the session handle behind the
// single entry point used by all callers. It guarantees
// connect-before-use, at most one connect in flight, and transparent
// rotation. There is exactly one Manager per process, constructed at
// startup and torn down at shutdown.
type Manager struct {
	client      backend.Client
	policy      *Policy
	ledger      *Ledger
	logger      *slog.Logger
	sanitize    func(string) string
	observeWait func(time.Duration)
	timeout     time.Duration
	tracer      trace.Tracer

	// exchange serializes chat calls: the holder owns the connection
	// until its response is fully drained.
	exchange sync.Mutex

	mu              sync.Mutex // guards the fields below
	pending         *connectAttempt
	aliasTable      map[string]string
	defaultModel    string
	totalRequests   int64
	lastDispatch    time.Time
	sessionCreated  time.Time
	sessionRequests int
	sessionsCreated int
}

// NewManager creates the session manager over the given handle and
// policy.
func NewManager(client backend.Client, policy *Policy, ledger *Ledger, cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = NewLedger(time.Minute)
	}
	return &Manager{
		client:       client,
		policy:       policy,
		ledger:       ledger,
		logger:       logger,
		sanitize:     cfg.Sanitize,
		observeWait:  cfg.ObserveWait,
		timeout:      cfg.ResponseTimeout,
		tracer:       otel.Tracer("iflow-bridge/session"),
		aliasTable:   cfg.Aliases,
		defaultModel: cfg.DefaultModel,
	}
}

// EnsureConnected returns once a connection is live. Concurrent callers
// while disconnected share a single connect attempt; on failure the
// state stays Disconnected and every waiter receives the same error.
func (m *Manager) EnsureConnected(ctx context.Context) error {
	m.mu.Lock()
	if m.client.Connected() {
		m.mu.Unlock()
		return nil
	}
	if m.pending != nil {
		attempt := m.pending
		m.mu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	attempt := &connectAttempt{done: make(chan struct{})}
	m.pending = attempt
	model := m.defaultModel
	m.mu.Unlock()

	err := m.client.Connect(ctx, model)

	m.mu.Lock()
	m.pending = nil
	if err == nil {
		m.sessionsCreated++
		m.sessionCreated = time.Now()
		m.sessionRequests = 0
	}
	sessions := m.sessionsCreated
	m.mu.Unlock()

	if err == nil {
		m.logger.Info("backend session established", "model", model, "sessions_created", sessions)
	} else if sessions == 0 {
		m.logger.Error("initial backend connect failed", "model", model, "error", err)
	} else {
		m.logger.Error("backend reconnect failed", "model", model, "sessions_created", sessions, "error", err)
	}
	attempt.err = err
	close(attempt.done)
	return err
}

// Chat runs one non-streaming exchange: pacing gate, rotation check,
// connect, send, and a full drain of the backend response.
func (m *Manager) Chat(ctx context.Context, req Request) (string, error) {
	events, release, err := m.begin(ctx, req)
	if err != nil {
		return "", err
	}

	var timeoutC <-chan time.Time
	if m.timeout > 0 {
		timer := time.NewTimer(m.timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	var text strings.Builder
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				release()
				return m.applySanitize(text.String()), nil
			}
			switch ev.Type {
			case backend.EventText:
				text.WriteString(ev.Text)
			case backend.EventError:
				go func() { drain(events); release() }()
				return "", ev.Err
			case backend.EventComplete:
				// The event channel closes right after this.
			}
		case <-timeoutC:
			m.dropSession("backend response timed out")
			go func() { drain(events); release() }()
			return "", &backend.ConnectionError{Op: "receive", Message: "backend response timed out"}
		case <-ctx.Done():
			// Caller gone: drain and discard so the shared connection
			// is never left mid-response for the next caller.
			go func() { drain(events); release() }()
			return "", ctx.Err()
		}
	}
}

// ChatStream runs one streaming exchange. The returned channel yields a
// role-announcement chunk, one chunk per text delta, then a terminal
// chunk with a stop marker, and closes. It is lazy, finite, and
// consumed exactly once.
func (m *Manager) ChatStream(ctx context.Context, req Request) (<-chan Chunk, error) {
	events, release, err := m.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(chan Chunk)
	go m.forward(ctx, events, out, release)
	return out, nil
}

// forward pumps backend events into caller chunks. When the consumer's
// context ends it keeps draining the backend and discards the rest, so
// a dropped caller cannot corrupt the connection for the next one.
func (m *Manager) forward(ctx context.Context, events <-chan backend.Event, out chan<- Chunk, release func()) {
	defer release()
	defer close(out)

	var timeoutC <-chan time.Time
	if m.timeout > 0 {
		timer := time.NewTimer(m.timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	consumerGone := false
	emit := func(c Chunk) {
		if consumerGone {
			return
		}
		select {
		case out <- c:
		case <-ctx.Done():
			consumerGone = true
		}
	}

	announced := false
	announce := func() {
		if !announced {
			emit(Chunk{Role: "assistant"})
			announced = true
		}
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case backend.EventText:
				announce()
				emit(Chunk{Delta: m.applySanitize(ev.Text)})
			case backend.EventComplete:
				announce()
				emit(Chunk{Done: true, StopReason: StopReasonStop})
			case backend.EventError:
				emit(Chunk{Done: true, Err: ev.Err})
			}
		case <-timeoutC:
			m.dropSession("backend response timed out")
			emit(Chunk{Done: true, Err: &backend.ConnectionError{Op: "receive", Message: "backend response timed out"}})
			timeoutC = nil
		}
	}
}

// begin runs the shared front half of every exchange: pacing gate,
// dispatch bookkeeping, rotation, connect, model override, send, and
// receive. On success the caller owns the exchange lock and must invoke
// release exactly once after the event channel is fully drained.
func (m *Manager) begin(ctx context.Context, req Request) (<-chan backend.Event, func(), error) {
	m.exchange.Lock()
	ctx, span := m.tracer.Start(ctx, "backend.exchange",
		trace.WithAttributes(attribute.String("model", req.Model)))
	release := func() {
		span.End()
		m.exchange.Unlock()
	}
	started := false
	defer func() {
		if !started {
			release()
		}
	}()

	now := time.Now()
	m.mu.Lock()
	lastDispatch := m.lastDispatch
	m.mu.Unlock()

	if delay := m.policy.NextDelay(now, m.ledger, lastDispatch); delay > 0 {
		m.logger.Info("pacing delay before dispatch", "delay_ms", delay.Milliseconds())
		if m.observeWait != nil {
			m.observeWait(delay)
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, nil, err
		}
	}

	now = time.Now()
	m.mu.Lock()
	m.ledger.Record(now)
	m.lastDispatch = now
	m.totalRequests++
	sessionCreated := m.sessionCreated
	sessionRequests := m.sessionRequests
	m.mu.Unlock()

	if m.client.Connected() && m.policy.NeedsRotation(now, sessionCreated, sessionRequests) {
		m.logger.Info("rotating backend session",
			"session_requests", sessionRequests,
			"session_age_seconds", int64(now.Sub(sessionCreated).Seconds()),
		)
		m.dropSession("rotation")
		if err := sleepCtx(ctx, m.policy.Cooldown()); err != nil {
			return nil, nil, err
		}
	}

	if err := m.EnsureConnected(ctx); err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	m.sessionRequests++
	m.mu.Unlock()

	if model := m.ResolveModel(req.Model); model != "" {
		if err := m.client.Configure(ctx, model); err != nil {
			return nil, nil, err
		}
	}

	if err := m.client.Send(ctx, req.Prompt); err != nil {
		return nil, nil, err
	}

	// The receive side is deliberately detached from the caller's
	// context: the stream must be drained to completion even when the
	// caller disappears, or the next exchange would read stale frames.
	events, err := m.client.Receive(context.Background())
	if err != nil {
		return nil, nil, err
	}

	started = true
	return events, release, nil
}

// SetModel changes the default model for subsequent connects. When a
// connection is live the new model is applied to it immediately.
func (m *Manager) SetModel(id string) error {
	resolved := m.ResolveModel(id)
	if resolved == "" {
		return nil
	}

	m.mu.Lock()
	m.defaultModel = resolved
	m.mu.Unlock()

	if m.client.Connected() {
		return m.client.Configure(context.Background(), resolved)
	}
	return nil
}

// ResolveModel maps caller-supplied model identifiers through the alias
// table. Unknown names pass through unchanged.
func (m *Manager) ResolveModel(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if target, ok := m.aliasTable[name]; ok {
		return target
	}
	return name
}

// SetAliases replaces the alias table. Used by configuration reloads.
func (m *Manager) SetAliases(aliases map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aliasTable = aliases
}

// Stats returns a read-only snapshot of the pacing state. It never
// mutates the state: repeated calls with no intervening chats return
// identical values.
func (m *Manager) Stats() Stats {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		TotalRequests:      m.totalRequests,
		RequestsLastMinute: m.ledger.Count(now),
		SessionsCreated:    m.sessionsCreated,
	}
	if m.client.Connected() && !m.sessionCreated.IsZero() {
		s.SessionAgeSeconds = int64(now.Sub(m.sessionCreated).Seconds())
	}
	return s
}

// Connected reports whether a backend session is live.
func (m *Manager) Connected() bool {
	return m.client.Connected()
}

// Disconnect waits for any in-flight exchange and tears the session
// down. Used at shutdown.
func (m *Manager) Disconnect() error {
	m.exchange.Lock()
	defer m.exchange.Unlock()

	err := m.client.Disconnect()
	m.mu.Lock()
	m.sessionCreated = time.Time{}
	m.sessionRequests = 0
	m.mu.Unlock()
	return err
}

// dropSession tears the live session down and zeroes its bookkeeping.
func (m *Manager) dropSession(reason string) {
	if err := m.client.Disconnect(); err != nil {
		m.logger.Warn("backend disconnect failed", "reason", reason, "error", err)
	}
	m.mu.Lock()
	m.sessionCreated = time.Time{}
	m.sessionRequests = 0
	m.mu.Unlock()
}

// applySanitize runs the configured output filter, if any.
func (m *Manager) applySanitize(text string) string {
	if m.sanitize == nil {
		return text
	}
	return m.sanitize(text)
}

// drain consumes the rest of an event channel and discards it.
func drain(events <-chan backend.Event) {
	for range events {
	}
}

// sleepCtx sleeps for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
