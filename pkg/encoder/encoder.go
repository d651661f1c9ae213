// Package encoder counts a rotary quadrature encoder.
package encoder

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// Encoder holds the step count.  The counter is written from the edge watcher
// and read from the control loop, so every access goes through the atomic.
type Encoder struct {
	count   int64
	lastClk int32
}

func New(initialClk bool) *Encoder {
	e := &Encoder{}
	if initialClk {
		e.lastClk = 1
	}
	return e
}

func (e *Encoder) Position() int64 {
	return atomic.LoadInt64(&e.count)
}

func (e *Encoder) SetPosition(pos int64) {
	atomic.StoreInt64(&e.count, pos)
}

func (e *Encoder) Reset() {
	e.SetPosition(0)
}

// Update feeds one sample of the two encoder lines.  Only a change on the
// clock line counts: dt differing from the new clock level is clockwise (+1).
func (e *Encoder) Update(clk, dt bool) {
	c := int32(0)
	if clk {
		c = 1
	}
	if atomic.SwapInt32(&e.lastClk, c) == c {
		return
	}
	if dt != clk {
		atomic.AddInt64(&e.count, 1)
	} else {
		atomic.AddInt64(&e.count, -1)
	}
}

// edgeTimeout bounds each wait so Watch notices cancellation.
const edgeTimeout = 100 * time.Millisecond

type Pins struct {
	Clk, Dt string
}

// GPIO reads the encoder lines with pull-ups, as open-collector encoders need.
type GPIO struct {
	*Encoder
	clk, dt gpio.PinIO
}

func NewGPIO(pins Pins) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	clk := gpioreg.ByName(pins.Clk)
	if clk == nil {
		return nil, errors.Errorf("encoder: no such pin %q", pins.Clk)
	}
	dt := gpioreg.ByName(pins.Dt)
	if dt == nil {
		return nil, errors.Errorf("encoder: no such pin %q", pins.Dt)
	}
	if err := clk.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, errors.Wrap(err, "encoder clk pin")
	}
	if err := dt.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, errors.Wrap(err, "encoder dt pin")
	}
	return &GPIO{
		Encoder: New(clk.Read() == gpio.High),
		clk:     clk,
		dt:      dt,
	}, nil
}

// Watch counts clock edges until ctx is done.
func (g *GPIO) Watch(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			if !g.clk.WaitForEdge(edgeTimeout) {
				continue
			}
			g.Update(g.clk.Read() == gpio.High, g.dt.Read() == gpio.High)
		}
	}()
}
