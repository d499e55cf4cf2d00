package fiscal

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort is a scripted device port. Reads return queued chunks and
// otherwise behave like a serial read timeout (0 bytes, nil error).
type fakePort struct {
	mu      sync.Mutex
	written []byte
	chunks  chan []byte
	readErr error
	closed  bool
}

func newFakePort() *fakePort {
	return &fakePort{chunks: make(chan []byte, 16)}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	err := p.readErr
	p.mu.Unlock()
	if err != nil {
		return 0, err
	}

	select {
	case data := <-p.chunks:
		return copy(b, data), nil
	case <-time.After(2 * time.Millisecond):
		return 0, nil
	}
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) writtenBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written...)
}

func (p *fakePort) failReads(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

func newTestDriver() *FixedLengthDriver {
	return &FixedLengthDriver{Query: []byte{0x1b, 0x76}, ReplyLen: 3}
}

func TestNewStatusExchange(t *testing.T) {
	t.Run("requires a driver or factory", func(t *testing.T) {
		_, err := NewStatusExchange(Config{DeviceName: "/dev/ttyS0"}, newFakePort())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRINTER_NOT_CONFIGURED", domainErr.Code)
	})

	t.Run("requires a port", func(t *testing.T) {
		_, err := NewStatusExchange(Config{Driver: newTestDriver()}, nil)
		assert.Error(t, err)
	})

	t.Run("builds driver through factory", func(t *testing.T) {
		var factoryDevice string
		factory := func(deviceName string) (Driver, error) {
			factoryDevice = deviceName
			return newTestDriver(), nil
		}

		ex, err := NewStatusExchange(Config{DeviceName: "/dev/ttyS1", Factory: factory}, newFakePort())
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyS1", factoryDevice)
		assert.Equal(t, "/dev/ttyS1", ex.DeviceName())
		assert.NotNil(t, ex.Driver())
	})

	t.Run("propagates factory failure", func(t *testing.T) {
		factory := func(string) (Driver, error) {
			return nil, errors.New("unknown model")
		}

		_, err := NewStatusExchange(Config{Factory: factory}, newFakePort())
		assert.Error(t, err)
	})

	t.Run("prefers supplied driver over factory", func(t *testing.T) {
		driver := newTestDriver()
		factory := func(string) (Driver, error) {
			t.Fatal("factory should not run when a driver is supplied")
			return nil, nil
		}

		ex, err := NewStatusExchange(Config{Driver: driver, Factory: factory}, newFakePort())
		require.NoError(t, err)
		assert.Same(t, Driver(driver), ex.Driver())
	})
}

func TestStatusExchange_Reply(t *testing.T) {
	t.Run("fires reply when the predicate holds", func(t *testing.T) {
		port := newFakePort()
		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     newTestDriver(),
			Timeout:    time.Second,
		}, port)
		require.NoError(t, err)

		replyCh := make(chan []byte, 1)
		timedOut := make(chan struct{}, 1)
		ex.OnReply(func(reply []byte) { replyCh <- reply })
		ex.OnTimeout(func() { timedOut <- struct{}{} })

		port.chunks <- []byte{0x10, 0x20, 0x40}
		require.NoError(t, ex.Start())

		select {
		case reply := <-replyCh:
			assert.Equal(t, []byte{0x10, 0x20, 0x40}, reply)
		case <-time.After(time.Second):
			t.Fatal("reply callback never fired")
		}

		assert.Equal(t, []byte{0x1b, 0x76}, port.writtenBytes())

		select {
		case <-timedOut:
			t.Fatal("timeout fired after a reply")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("accumulates a three byte reply across chunked reads", func(t *testing.T) {
		port := newFakePort()
		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     &FixedLengthDriver{Query: []byte{0x1b, 0x76}, ReplyLen: 3},
			Timeout:    time.Second,
		}, port)
		require.NoError(t, err)

		replyCh := make(chan []byte, 1)
		ex.OnReply(func(reply []byte) { replyCh <- reply })

		port.chunks <- []byte{0x01}
		port.chunks <- []byte{0x02}
		require.NoError(t, ex.Start())

		// Two bytes are not a complete frame yet
		select {
		case <-replyCh:
			t.Fatal("reply fired before the frame was complete")
		case <-time.After(30 * time.Millisecond):
		}

		port.chunks <- []byte{0x03}

		select {
		case reply := <-replyCh:
			assert.Equal(t, []byte{0x01, 0x02, 0x03}, reply)
		case <-time.After(time.Second):
			t.Fatal("reply callback never fired")
		}
	})
}

func TestStatusExchange_Timeout(t *testing.T) {
	t.Run("fires timeout when no reply arrives", func(t *testing.T) {
		port := newFakePort()
		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     newTestDriver(),
			Timeout:    30 * time.Millisecond,
		}, port)
		require.NoError(t, err)

		replyCh := make(chan []byte, 1)
		timedOut := make(chan struct{}, 1)
		ex.OnReply(func(reply []byte) { replyCh <- reply })
		ex.OnTimeout(func() { timedOut <- struct{}{} })

		require.NoError(t, ex.Start())

		select {
		case <-timedOut:
		case <-time.After(time.Second):
			t.Fatal("timeout callback never fired")
		}

		select {
		case <-replyCh:
			t.Fatal("reply fired after a timeout")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("discards a partial reply on timeout", func(t *testing.T) {
		port := newFakePort()
		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     newTestDriver(),
			Timeout:    30 * time.Millisecond,
		}, port)
		require.NoError(t, err)

		replyCh := make(chan []byte, 1)
		timedOut := make(chan struct{}, 1)
		ex.OnReply(func(reply []byte) { replyCh <- reply })
		ex.OnTimeout(func() { timedOut <- struct{}{} })

		port.chunks <- []byte{0x01, 0x02}
		require.NoError(t, ex.Start())

		select {
		case <-timedOut:
		case <-time.After(time.Second):
			t.Fatal("timeout callback never fired")
		}

		select {
		case <-replyCh:
			t.Fatal("partial buffer produced a reply")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestStatusExchange_Stop(t *testing.T) {
	t.Run("suppresses both terminal callbacks", func(t *testing.T) {
		port := newFakePort()
		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     newTestDriver(),
			Timeout:    30 * time.Millisecond,
		}, port)
		require.NoError(t, err)

		replyCh := make(chan []byte, 1)
		timedOut := make(chan struct{}, 1)
		ex.OnReply(func(reply []byte) { replyCh <- reply })
		ex.OnTimeout(func() { timedOut <- struct{}{} })

		require.NoError(t, ex.Start())
		ex.Stop()

		// Data arriving after Stop must not resurrect the exchange
		port.chunks <- []byte{0x01, 0x02, 0x03}

		select {
		case <-replyCh:
			t.Fatal("reply fired after Stop")
		case <-timedOut:
			t.Fatal("timeout fired after Stop")
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestStatusExchange_Start(t *testing.T) {
	t.Run("runs only once", func(t *testing.T) {
		port := newFakePort()
		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     newTestDriver(),
			Timeout:    time.Second,
		}, port)
		require.NoError(t, err)

		require.NoError(t, ex.Start())
		defer ex.Stop()

		err = ex.Start()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXCHANGE_ALREADY_STARTED", domainErr.Code)
	})

	t.Run("reports read failures through the error callback", func(t *testing.T) {
		port := newFakePort()
		port.failReads(errors.New("device unplugged"))

		ex, err := NewStatusExchange(Config{
			DeviceName: "/dev/ttyS0",
			Driver:     newTestDriver(),
			Timeout:    time.Second,
		}, port)
		require.NoError(t, err)

		errCh := make(chan error, 1)
		timedOut := make(chan struct{}, 1)
		ex.OnError(func(err error) { errCh <- err })
		ex.OnTimeout(func() { timedOut <- struct{}{} })

		require.NoError(t, ex.Start())

		select {
		case readErr := <-errCh:
			assert.ErrorContains(t, readErr, "device unplugged")
		case <-time.After(time.Second):
			t.Fatal("error callback never fired")
		}

		select {
		case <-timedOut:
			t.Fatal("timeout fired after a transport error")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestFixedLengthDriver(t *testing.T) {
	driver := &FixedLengthDriver{Query: []byte{0x1b, 0x76}, ReplyLen: 3}

	assert.Equal(t, []byte{0x1b, 0x76}, driver.QueryStatus())
	assert.False(t, driver.ReplyComplete(nil))
	assert.False(t, driver.ReplyComplete([]byte{0x01, 0x02}))
	assert.True(t, driver.ReplyComplete([]byte{0x01, 0x02, 0x03}))
	assert.True(t, driver.ReplyComplete([]byte{0x01, 0x02, 0x03, 0x04}))
}
