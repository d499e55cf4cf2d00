package fiscal

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the device handle a status exchange reads and writes.
// Reads are expected to return periodically (short read timeout or
// chunked data) rather than block indefinitely.
type Port interface {
	io.ReadWriteCloser
}

// serialReadTimeout keeps Read from blocking forever so a finished
// exchange can release its reader.
const serialReadTimeout = 100 * time.Millisecond

// OpenSerialPort opens a serial device in non-blocking fashion with the
// given baud rate.
func OpenSerialPort(device string, baudRate int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial device %s: %w", device, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", device, err)
	}
	return port, nil
}
