package mcp3008

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

const (
	NumChannels = 8
	MaxValue    = 1023

	// The chip is happy up to 3.6MHz at 5V; 1MHz leaves margin at 3.3V.
	ClockSpeed = physic.MegaHertz
)

type Interface interface {
	// ReadChannel returns the 10-bit single-ended conversion for ch.
	ReadChannel(ch int) (int, error)
	Close() error
}

type MCP3008 struct {
	lock sync.Mutex
	port spi.PortCloser
	conn spi.Conn
}

func New(deviceFile string) (Interface, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	p, err := spireg.Open(deviceFile)
	if err != nil {
		return nil, errors.Wrapf(err, "open SPI port %s", deviceFile)
	}
	c, err := p.Connect(ClockSpeed, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "connect to MCP3008")
	}
	return &MCP3008{
		port: p,
		conn: c,
	}, nil
}

func (m *MCP3008) ReadChannel(ch int) (int, error) {
	if ch < 0 || ch >= NumChannels {
		return 0, fmt.Errorf("MCP3008 channel out of range: %d", ch)
	}
	// Start bit, then single-ended mode + channel in the top nibble.
	w := []byte{0x01, byte(0x80 | (ch << 4)), 0x00}
	r := make([]byte, len(w))

	m.lock.Lock()
	err := m.conn.Tx(w, r)
	m.lock.Unlock()
	if err != nil {
		return 0, err
	}
	return Decode(r), nil
}

// Decode extracts the 10-bit result from a 3-byte transfer.
func Decode(r []byte) int {
	return int(r[1]&0x03)<<8 | int(r[2])
}

func (m *MCP3008) Close() error {
	return m.port.Close()
}

func Dummy(values ...int) Interface {
	d := &dummyADC{}
	copy(d.values[:], values)
	return d
}

type dummyADC struct {
	lock   sync.Mutex
	values [NumChannels]int
}

// Set changes what a dummy returns for a channel.
func Set(adc Interface, ch, value int) {
	if d, ok := adc.(*dummyADC); ok && ch >= 0 && ch < NumChannels {
		d.lock.Lock()
		d.values[ch] = value
		d.lock.Unlock()
	}
}

func (d *dummyADC) ReadChannel(ch int) (int, error) {
	if ch < 0 || ch >= NumChannels {
		return 0, fmt.Errorf("MCP3008 channel out of range: %d", ch)
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.values[ch], nil
}

func (d *dummyADC) Close() error {
	return nil
}
