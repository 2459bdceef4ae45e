package backend

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
)

// maxLineSize is the scanner buffer limit for one backend frame (1MB).
const maxLineSize = 1024 * 1024

// CLIConfig configures the subprocess behind a CLIClient.
type CLIConfig struct {
	// Command is the backend executable (e.g., "iflow").
	Command string

	// Args are passed to the executable on start.
	Args []string

	// DefaultModel is selected on connect when the caller does not
	// request a model.
	DefaultModel string
}

// CLIClient drives the backend subprocess over its stdio using the
// JSON-lines session protocol. It implements Client.
type CLIClient struct {
	cfg    CLIConfig
	logger *slog.Logger

	mu        sync.Mutex
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	stderr    io.ReadCloser
	scanner   *bufio.Scanner
	connected bool
}

// NewCLIClient creates a disconnected handle for the given subprocess
// configuration. Connect must be called before any exchange.
func NewCLIClient(cfg CLIConfig, logger *slog.Logger) *CLIClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIClient{cfg: cfg, logger: logger}
}

// Connect starts the subprocess, wires its pipes, and sends the
// capability-disabling configuration frame selecting the model.
func (c *CLIClient) Connect(ctx context.Context, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	if model == "" {
		model = c.cfg.DefaultModel
	}

	cmd := exec.Command(c.cfg.Command, c.cfg.Args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &ConnectionError{Op: "start", Message: "failed to create stdin pipe", Cause: err}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return &ConnectionError{Op: "start", Message: "failed to create stdout pipe", Cause: err}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return &ConnectionError{Op: "start", Message: "failed to create stderr pipe", Cause: err}
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return &ConnectionError{Op: "start", Message: "failed to start backend process", Cause: err}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	c.cmd = cmd
	c.stdin = stdin
	c.stdout = stdout
	c.stderr = stderr
	c.scanner = scanner
	c.connected = true

	go c.logStderr(stderr)

	if err := c.writeConfigureLocked(model); err != nil {
		c.teardownLocked()
		return &ConnectionError{Op: "configure", Message: "failed to configure backend", Cause: err}
	}

	c.logger.Info("backend session connected",
		"command", c.cfg.Command,
		"model", model,
		"pid", cmd.Process.Pid,
	)
	return nil
}

// Configure selects a model on the live connection.
func (c *CLIClient) Configure(ctx context.Context, model string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return &SessionError{Op: "configure"}
	}
	if model == "" {
		return nil
	}
	return c.writeConfigureLocked(model)
}

// Send writes one prompt frame to the live connection.
func (c *CLIClient) Send(ctx context.Context, prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return &SessionError{Op: "send"}
	}

	data, err := encodeUserInput(prompt)
	if err != nil {
		return err
	}
	if _, err := c.stdin.Write(data); err != nil {
		return &ConnectionError{Op: "send", Message: "failed to write to backend", Cause: err}
	}
	return nil
}

// Receive yields backend events for the exchange started by the last
// Send. The channel closes at the first completion event, on a
// mid-stream failure (after delivering an Err event), or when the
// connection closes.
func (c *CLIClient) Receive(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil, &SessionError{Op: "receive"}
	}
	scanner := c.scanner
	c.mu.Unlock()

	events := make(chan Event)
	go c.readEvents(ctx, scanner, events)
	return events, nil
}

// readEvents pumps decoded frames into the event channel until the
// exchange completes or the connection dies.
func (c *CLIClient) readEvents(ctx context.Context, scanner *bufio.Scanner, events chan<- Event) {
	defer close(events)

	for scanner.Scan() {
		ev, ok, err := decodeEvent(scanner.Bytes())
		if err != nil {
			// A malformed frame poisons everything after it: the rest of
			// the exchange is still in the pipe and would be read as the
			// next caller's response. Tear the connection down so the
			// next call reconnects.
			c.teardown()
			c.deliver(ctx, events, Event{Type: EventError, Err: err})
			return
		}
		if !ok {
			continue
		}

		if !c.deliver(ctx, events, ev) {
			return
		}
		if ev.Type == EventComplete || ev.Type == EventError {
			return
		}
	}

	// The stream ended without a completion event: the connection is
	// gone, whether by error or by EOF.
	c.teardown()
	if err := scanner.Err(); err != nil {
		c.deliver(ctx, events, Event{Type: EventError, Err: &ConnectionError{
			Op:      "receive",
			Message: "backend stream failed",
			Cause:   err,
		}})
	}
}

// deliver sends an event unless the consumer's context is done.
func (c *CLIClient) deliver(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Disconnect tears down the subprocess. Safe to call repeatedly.
func (c *CLIClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil && !c.connected {
		return nil
	}
	c.teardownLocked()
	c.logger.Info("backend session disconnected")
	return nil
}

// Connected reports whether a connection is live.
func (c *CLIClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// writeConfigureLocked sends a configure frame. Caller holds mu.
func (c *CLIClient) writeConfigureLocked(model string) error {
	data, err := encodeConfigure(model)
	if err != nil {
		return err
	}
	if _, err := c.stdin.Write(data); err != nil {
		return &ConnectionError{Op: "configure", Message: "failed to write to backend", Cause: err}
	}
	return nil
}

// teardownLocked releases pipes and reaps the process. Caller holds mu.
func (c *CLIClient) teardownLocked() {
	if c.stdin != nil {
		c.stdin.Close()
	}
	if c.stdout != nil {
		c.stdout.Close()
	}
	if c.stderr != nil {
		c.stderr.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		if err := c.cmd.Process.Kill(); err != nil {
			c.logger.Warn("failed to kill backend process", "error", err)
		}
		c.cmd.Wait()
	}
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	c.stderr = nil
	c.scanner = nil
	c.connected = false
}

// teardown releases the connection after the stream died or turned
// unreadable underneath us.
func (c *CLIClient) teardown() {
	c.mu.Lock()
	c.teardownLocked()
	c.mu.Unlock()
}

// logStderr forwards backend diagnostics to the bridge log.
func (c *CLIClient) logStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		c.logger.Warn("backend stderr", "message", truncate(scanner.Text(), maxFrameNote))
	}
}
