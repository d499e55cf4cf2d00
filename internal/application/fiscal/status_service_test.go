package fiscal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/fiscal"
)

// stubPort scripts the device side of a status exchange
type stubPort struct {
	mu      sync.Mutex
	written []byte
	chunks  chan []byte
	closed  bool
}

func newStubPort() *stubPort {
	return &stubPort{chunks: make(chan []byte, 4)}
}

func (p *stubPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *stubPort) Read(b []byte) (int, error) {
	select {
	case data := <-p.chunks:
		return copy(b, data), nil
	case <-time.After(2 * time.Millisecond):
		return 0, nil
	}
}

func (p *stubPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func testPrinter(timeout time.Duration) Printer {
	return Printer{
		Device:     "/dev/ttyS0",
		BaudRate:   9600,
		QueryBytes: []byte{0x1b, 0x76},
		ReplyLen:   3,
		Timeout:    timeout,
	}
}

func TestStatusService_QueryStatus(t *testing.T) {
	t.Run("reports a reply with its hex payload", func(t *testing.T) {
		port := newStubPort()
		port.chunks <- []byte{0x10, 0x20, 0x40}
		opener := func(device string, baudRate int) (fiscal.Port, error) {
			assert.Equal(t, "/dev/ttyS0", device)
			assert.Equal(t, 9600, baudRate)
			return port, nil
		}
		service := NewStatusService(testPrinter(time.Second), opener, zap.NewNop())

		resp, err := service.QueryStatus(context.Background())

		require.NoError(t, err)
		assert.Equal(t, OutcomeReply, resp.Outcome)
		assert.Equal(t, "102040", resp.ReplyHex)
		assert.Equal(t, "/dev/ttyS0", resp.Device)

		port.mu.Lock()
		defer port.mu.Unlock()
		assert.Equal(t, []byte{0x1b, 0x76}, port.written)
		assert.True(t, port.closed)
	})

	t.Run("reports a timeout when the printer stays silent", func(t *testing.T) {
		port := newStubPort()
		opener := func(string, int) (fiscal.Port, error) { return port, nil }
		service := NewStatusService(testPrinter(30*time.Millisecond), opener, zap.NewNop())

		resp, err := service.QueryStatus(context.Background())

		require.NoError(t, err)
		assert.Equal(t, OutcomeTimeout, resp.Outcome)
		assert.Empty(t, resp.ReplyHex)
	})

	t.Run("propagates port open failures", func(t *testing.T) {
		opener := func(string, int) (fiscal.Port, error) {
			return nil, errors.New("no such device")
		}
		service := NewStatusService(testPrinter(time.Second), opener, zap.NewNop())

		_, err := service.QueryStatus(context.Background())
		assert.ErrorContains(t, err, "no such device")
	})

	t.Run("a cancelled context stops the exchange", func(t *testing.T) {
		port := newStubPort()
		opener := func(string, int) (fiscal.Port, error) { return port, nil }
		service := NewStatusService(testPrinter(time.Second), opener, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.QueryStatus(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
