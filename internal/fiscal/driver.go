package fiscal

// Driver supplies the device-specific framing for a status exchange:
// the query bytes to transmit and the predicate that decides when the
// accumulated reply is complete.
type Driver interface {
	// QueryStatus returns the bytes of the status query
	QueryStatus() []byte
	// ReplyComplete reports whether the accumulated bytes form a full reply
	ReplyComplete(reply []byte) bool
}

// DriverFactory builds a driver for a device when no instance is supplied
type DriverFactory func(deviceName string) (Driver, error)

// FixedLengthDriver is a driver whose replies have a known fixed size.
// Most ECF printers answer the status register with a fixed-width frame.
type FixedLengthDriver struct {
	Query    []byte
	ReplyLen int
}

// QueryStatus returns the bytes of the status query
func (d *FixedLengthDriver) QueryStatus() []byte {
	return d.Query
}

// ReplyComplete reports whether enough bytes were accumulated
func (d *FixedLengthDriver) ReplyComplete(reply []byte) bool {
	return len(reply) >= d.ReplyLen
}
