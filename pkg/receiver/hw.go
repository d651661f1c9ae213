package receiver

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/pulse"
)

// NewGPIO opens one pulse input per channel, in channel order.
func NewGPIO(pins [NumChannels]string, sink diag.Sink) (*Decoder, error) {
	var sources [NumChannels]pulse.Source
	for i, name := range pins {
		src, err := pulse.NewGPIO(name)
		if err != nil {
			return nil, errors.Wrapf(err, "receiver channel %d", i+1)
		}
		sources[i] = src
	}
	return New(sources, sink), nil
}

// Simulator stands in for a receiver.  Each channel reports whatever width
// was last set, 0 meaning the channel is silent.
type Simulator struct {
	widths [NumChannels]int64
}

// NewSimulator starts with the sticks centred and the link armed.
func NewSimulator() *Simulator {
	s := &Simulator{}
	for ch := 1; ch <= NumChannels; ch++ {
		s.Set(ch, 1495)
	}
	s.Set(ChSpeed, RawMinRef)
	s.Set(ChFollow, 1000)
	s.Set(ChLink, 1800)
	return s
}

func (s *Simulator) Set(channel int, us int) {
	if channel < 1 || channel > NumChannels {
		return
	}
	atomic.StoreInt64(&s.widths[channel-1], int64(us))
}

func (s *Simulator) Get(channel int) int {
	if channel < 1 || channel > NumChannels {
		return 0
	}
	return int(atomic.LoadInt64(&s.widths[channel-1]))
}

// Sources returns one pulse.Source per channel.
func (s *Simulator) Sources() [NumChannels]pulse.Source {
	var out [NumChannels]pulse.Source
	for i := range out {
		ch := i + 1
		out[i] = pulse.SourceFunc(func(timeout time.Duration) time.Duration {
			us := s.Get(ch)
			if us <= 0 {
				return 0
			}
			return time.Duration(us) * time.Microsecond
		})
	}
	return out
}
