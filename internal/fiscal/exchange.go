package fiscal

import (
	"fmt"
	"sync"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

// DefaultTimeout bounds a status exchange when no timeout is configured
const DefaultTimeout = 5 * time.Second

// ErrNotConfigured is returned when neither a driver nor a driver
// factory is supplied.
var ErrNotConfigured = shared.NewDomainError("PRINTER_NOT_CONFIGURED",
	"A fiscal printer driver or driver factory is required")

// Config describes one status exchange against a device
type Config struct {
	// DeviceName identifies the device, e.g. /dev/ttyS0
	DeviceName string
	// Driver is an already-built driver instance
	Driver Driver
	// Factory builds the driver when Driver is nil
	Factory DriverFactory
	// Timeout bounds the whole exchange; DefaultTimeout when zero
	Timeout time.Duration
}

const (
	stateIdle = iota
	stateRunning
	stateDone
)

// StatusExchange performs a single-attempt, non-retrying status query:
// one write of the driver's query bytes, then reads accumulated until
// the driver's completion predicate holds or the timeout elapses.
// Exactly one terminal callback fires per exchange; Stop suppresses
// both. Instances are not reusable.
type StatusExchange struct {
	deviceName string
	driver     Driver
	port       Port
	timeout    time.Duration

	onReply   func(reply []byte)
	onTimeout func()
	onError   func(err error)

	mu     sync.Mutex
	state  int
	buf    []byte
	timer  *time.Timer
	stopCh chan struct{}
}

// NewStatusExchange validates the configuration and resolves the driver.
// Failing here means nothing was registered against the device yet.
func NewStatusExchange(cfg Config, port Port) (*StatusExchange, error) {
	if cfg.Driver == nil && cfg.Factory == nil {
		return nil, ErrNotConfigured
	}
	if port == nil {
		return nil, shared.NewDomainError("PRINTER_PORT_REQUIRED", "A device port is required")
	}

	driver := cfg.Driver
	if driver == nil {
		built, err := cfg.Factory(cfg.DeviceName)
		if err != nil {
			return nil, fmt.Errorf("driver factory failed for %s: %w", cfg.DeviceName, err)
		}
		driver = built
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &StatusExchange{
		deviceName: cfg.DeviceName,
		driver:     driver,
		port:       port,
		timeout:    timeout,
		stopCh:     make(chan struct{}),
	}, nil
}

// OnReply registers the callback for a complete reply.
// Must be called before Start.
func (e *StatusExchange) OnReply(fn func(reply []byte)) {
	e.onReply = fn
}

// OnTimeout registers the callback for the timeout outcome.
// Must be called before Start.
func (e *StatusExchange) OnTimeout(fn func()) {
	e.onTimeout = fn
}

// OnError registers the callback for transport failures, which are
// fatal to the exchange. Must be called before Start.
func (e *StatusExchange) OnError(fn func(err error)) {
	e.onError = fn
}

// DeviceName returns the device identifier
func (e *StatusExchange) DeviceName() string {
	return e.deviceName
}

// Driver returns the resolved driver
func (e *StatusExchange) Driver() Driver {
	return e.driver
}

// Start transmits the status query once, arms the timer and begins
// accumulating the reply. It returns an error if the exchange already
// ran or the write fails.
func (e *StatusExchange) Start() error {
	e.mu.Lock()
	if e.state != stateIdle {
		e.mu.Unlock()
		return shared.NewDomainError("EXCHANGE_ALREADY_STARTED", "A status exchange runs only once")
	}
	e.state = stateRunning
	e.mu.Unlock()

	query := e.driver.QueryStatus()
	for len(query) > 0 {
		n, err := e.port.Write(query)
		if err != nil {
			e.terminate()
			return fmt.Errorf("failed to write status query to %s: %w", e.deviceName, err)
		}
		query = query[n:]
	}

	e.mu.Lock()
	if e.state == stateDone {
		e.mu.Unlock()
		return nil
	}
	e.timer = time.AfterFunc(e.timeout, e.expire)
	e.mu.Unlock()

	go e.readLoop()
	return nil
}

// Stop cancels the pending timer and tears the exchange down without
// firing either terminal callback.
func (e *StatusExchange) Stop() {
	e.terminate()
}

// readLoop accumulates reply bytes until the completion predicate holds
// or the exchange terminates.
func (e *StatusExchange) readLoop() {
	chunk := make([]byte, 256)
	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		n, err := e.port.Read(chunk)
		if n > 0 {
			if e.accumulate(chunk[:n]) {
				return
			}
		}
		if err != nil {
			if e.terminate() && e.onError != nil {
				e.onError(fmt.Errorf("failed to read from %s: %w", e.deviceName, err))
			}
			return
		}
	}
}

// accumulate appends received bytes and fires the reply callback when
// the driver judges the buffer complete. Returns true when the exchange
// reached a terminal state.
func (e *StatusExchange) accumulate(data []byte) bool {
	e.mu.Lock()
	if e.state == stateDone {
		e.mu.Unlock()
		return true
	}
	e.buf = append(e.buf, data...)
	if !e.driver.ReplyComplete(e.buf) {
		e.mu.Unlock()
		return false
	}
	reply := append([]byte(nil), e.buf...)
	e.finishLocked()
	e.mu.Unlock()

	if e.onReply != nil {
		e.onReply(reply)
	}
	return true
}

// expire fires the timeout outcome and discards any partial buffer
func (e *StatusExchange) expire() {
	e.mu.Lock()
	if e.state == stateDone {
		e.mu.Unlock()
		return
	}
	e.buf = nil
	e.finishLocked()
	e.mu.Unlock()

	if e.onTimeout != nil {
		e.onTimeout()
	}
}

// terminate moves the exchange to its terminal state without firing
// callbacks. Returns false when it already terminated.
func (e *StatusExchange) terminate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateDone {
		return false
	}
	e.finishLocked()
	return true
}

// finishLocked stops the timer and releases the reader.
// Callers must hold the mutex.
func (e *StatusExchange) finishLocked() {
	e.state = stateDone
	if e.timer != nil {
		e.timer.Stop()
	}
	close(e.stopCh)
}
