package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/ghostview/internal/ctxlog"
	"github.com/specialistvlad/ghostview/internal/sharva"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the socket.io event deltas are emitted as.
const DefaultEvent = "delta"

// SocketIOConfig describes the rendering client to publish to.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketIO emits deltas over a connected socket.io client.
type SocketIO struct {
	event      string
	emit       func(event string, data any)
	connected  func() bool
	disconnect func()
}

// DialSocketIO connects to the configured server and waits for the
// handshake to finish.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", cfg.URL)
	logger.Info("Connecting to rendering client...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL '%s' must include a scheme and host", cfg.URL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- connectError(errs)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	event := cfg.Event
	if event == "" {
		event = DefaultEvent
	}
	return &SocketIO{
		event:      event,
		emit:       func(ev string, data any) { io.Emit(ev, data) },
		connected:  io.Connected,
		disconnect: func() { io.Disconnect() },
	}, nil
}

// Publish emits the delta as a JSON object.
func (s *SocketIO) Publish(ctx context.Context, d *sharva.Delta) error {
	if !s.connected() {
		return fmt.Errorf("socket.io client is not connected")
	}
	data, err := payload(d)
	if err != nil {
		return fmt.Errorf("failed to encode delta %s: %w", d.ID, err)
	}
	ctxlog.FromContext(ctx).Debug("Emitting delta.", "event", s.event, "cycle", d.ID)
	s.emit(s.event, data)
	return nil
}

// Close disconnects the client.
func (s *SocketIO) Close() error {
	s.disconnect()
	return nil
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(args []any) error {
	if len(args) == 0 {
		return errors.New("connect_error")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", args[0])
}
