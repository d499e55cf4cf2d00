package fiscal

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/retailpos/backend/internal/fiscal"
	"go.uber.org/zap"
)

// PortOpener opens the device port for a status exchange
type PortOpener func(device string, baudRate int) (fiscal.Port, error)

// Printer describes the configured fiscal printer
type Printer struct {
	Device     string
	BaudRate   int
	QueryBytes []byte
	ReplyLen   int
	Timeout    time.Duration
}

// StatusOutcome names the terminal outcome of an exchange
type StatusOutcome string

const (
	OutcomeReply   StatusOutcome = "reply"
	OutcomeTimeout StatusOutcome = "timeout"
)

// StatusResponse is the result of one printer status query
type StatusResponse struct {
	Device    string        `json:"device"`
	Outcome   StatusOutcome `json:"outcome"`
	ReplyHex  string        `json:"reply_hex,omitempty"`
	ElapsedMs int64         `json:"elapsed_ms"`
}

// StatusService runs status exchanges against the configured printer
type StatusService struct {
	printer  Printer
	openPort PortOpener
	logger   *zap.Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(printer Printer, openPort PortOpener, logger *zap.Logger) *StatusService {
	return &StatusService{
		printer:  printer,
		openPort: openPort,
		logger:   logger,
	}
}

// QueryStatus opens the printer port, performs a single status exchange
// and reports the terminal outcome. Cancelling the context stops the
// exchange without an outcome.
func (s *StatusService) QueryStatus(ctx context.Context) (*StatusResponse, error) {
	port, err := s.openPort(s.printer.Device, s.printer.BaudRate)
	if err != nil {
		return nil, err
	}
	defer port.Close()

	exchange, err := fiscal.NewStatusExchange(fiscal.Config{
		DeviceName: s.printer.Device,
		Driver: &fiscal.FixedLengthDriver{
			Query:    s.printer.QueryBytes,
			ReplyLen: s.printer.ReplyLen,
		},
		Timeout: s.printer.Timeout,
	}, port)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		reply []byte
		timed bool
		err   error
	}
	done := make(chan outcome, 1)

	exchange.OnReply(func(reply []byte) {
		done <- outcome{reply: reply}
	})
	exchange.OnTimeout(func() {
		done <- outcome{timed: true}
	})
	exchange.OnError(func(err error) {
		done <- outcome{err: err}
	})

	started := time.Now()
	if err := exchange.Start(); err != nil {
		return nil, err
	}

	select {
	case o := <-done:
		elapsed := time.Since(started)
		if o.err != nil {
			s.logger.Error("printer status exchange failed",
				zap.String("device", s.printer.Device),
				zap.Error(o.err))
			return nil, o.err
		}
		if o.timed {
			s.logger.Warn("printer status timed out",
				zap.String("device", s.printer.Device),
				zap.Duration("elapsed", elapsed))
			return &StatusResponse{
				Device:    s.printer.Device,
				Outcome:   OutcomeTimeout,
				ElapsedMs: elapsed.Milliseconds(),
			}, nil
		}
		s.logger.Debug("printer status reply",
			zap.String("device", s.printer.Device),
			zap.Int("bytes", len(o.reply)),
			zap.Duration("elapsed", elapsed))
		return &StatusResponse{
			Device:    s.printer.Device,
			Outcome:   OutcomeReply,
			ReplyHex:  hex.EncodeToString(o.reply),
			ElapsedMs: elapsed.Milliseconds(),
		}, nil
	case <-ctx.Done():
		exchange.Stop()
		return nil, ctx.Err()
	}
}
