package receiver

import (
	"strings"
	"testing"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/pulse"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestDecoder(sim *Simulator, sink diag.Sink) (*Decoder, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	d := New(sim.Sources(), sink)
	d.SetClock(clock.now)
	return d, clock
}

func TestReadIsIdempotent(t *testing.T) {
	sim := NewSimulator()
	sim.Set(ChDriveA, 1700)
	sim.Set(ChSpeed, 1490)
	d, clock := newTestDecoder(sim, nil)

	first := d.Read()
	clock.advance(20 * time.Millisecond)
	second := d.Read()

	for i := range first.Channels {
		if first.Channels[i].RawUs != second.Channels[i].RawUs || first.Channels[i].Value != second.Channels[i].Value {
			t.Errorf("channel %d differs between reads: %+v vs %+v", i+1, first.Channels[i], second.Channels[i])
		}
		if !second.Channels[i].SampledAt.After(first.Channels[i].SampledAt) {
			t.Errorf("channel %d sample time did not move", i+1)
		}
	}
	if first.Speed != second.Speed || first.Follow != second.Follow || first.Connected != second.Connected {
		t.Errorf("derived state differs: %+v vs %+v", first, second)
	}
}

func TestReadClamps(t *testing.T) {
	sim := NewSimulator()
	sim.Set(1, 3000)
	sim.Set(2, 100)
	sim.Set(3, 0)
	d, _ := newTestDecoder(sim, nil)

	s := d.Read()
	if s.Raw(1) != 2500 {
		t.Errorf("long pulse stored as %d", s.Raw(1))
	}
	if s.Raw(2) != 800 {
		t.Errorf("short pulse stored as %d", s.Raw(2))
	}
	if s.Raw(3) != 0 {
		t.Errorf("missing pulse stored as %d", s.Raw(3))
	}
	if d.Channel(1) != 2500 || d.Channel(0) != 0 || d.Channel(7) != 0 {
		t.Errorf("Channel accessor returned %v %v %v", d.Channel(1), d.Channel(0), d.Channel(7))
	}
}

func TestReadTimeout(t *testing.T) {
	var sources [NumChannels]pulse.Source
	for i := range sources {
		sources[i] = pulse.SourceFunc(func(timeout time.Duration) time.Duration {
			return timeout + time.Microsecond
		})
	}
	d := New(sources, nil)
	s := d.Read()
	for i, c := range s.Channels {
		if c.RawUs != 0 {
			t.Errorf("channel %d: timed-out pulse read as %d", i+1, c.RawUs)
		}
	}
	if s.Speed != 0 || s.Follow {
		t.Errorf("silent receiver derived speed=%d follow=%v", s.Speed, s.Follow)
	}
}

func TestMapSpeed(t *testing.T) {
	tests := []struct {
		raw      int
		expected int
	}{
		{0, 0},
		{800, 0},
		{990, 0},
		{1490, 127},
		{1990, 255},
		{2500, 255},
	}
	for _, tt := range tests {
		if got := MapSpeed(tt.raw); got != tt.expected {
			t.Errorf("MapSpeed(%d) = %d, want %d", tt.raw, got, tt.expected)
		}
	}
}

func TestFollowSwitch(t *testing.T) {
	sim := NewSimulator()
	d, _ := newTestDecoder(sim, nil)

	sim.Set(ChFollow, 1530)
	if d.Read().Follow {
		t.Error("follow enabled at the neutral-high boundary")
	}
	sim.Set(ChFollow, 1531)
	if !d.Read().Follow {
		t.Error("follow not enabled above neutral-high")
	}
}

func TestCheckConnectionBand(t *testing.T) {
	tests := []struct {
		raw      int
		expected bool
	}{
		{0, false},
		{1000, false},
		{1530, false},
		{1531, true},
		{1800, true},
		{1999, true},
		{2000, false},
		{2400, false},
	}
	for _, tt := range tests {
		sim := NewSimulator()
		sim.Set(ChLink, tt.raw)
		d, _ := newTestDecoder(sim, nil)
		if got := d.CheckConnection(); got != tt.expected {
			t.Errorf("CheckConnection with link=%d = %v, want %v", tt.raw, got, tt.expected)
		}
		if d.State().Connected != tt.expected {
			t.Errorf("state not updated for link=%d", tt.raw)
		}
	}
}

func TestCheckConnectionFreshness(t *testing.T) {
	sim := NewSimulator()
	sink := &diag.Buffer{}
	d, clock := newTestDecoder(sim, sink)

	if !d.CheckConnection() {
		t.Fatal("armed link reported as disconnected")
	}

	// Within the freshness window the stale sample is reused.
	sim.Set(ChLink, 0)
	clock.advance(Freshness)
	if !d.CheckConnection() {
		t.Fatal("link re-sampled inside the freshness window")
	}

	clock.advance(time.Millisecond)
	if d.CheckConnection() {
		t.Fatal("lost link still reported connected after the window")
	}

	out := sink.String()
	if strings.Count(out, "Remote Connected") != 1 {
		t.Errorf("expected one connect message, got %q", out)
	}
	if !strings.Contains(out, "Remote Lost") {
		t.Errorf("expected a lost message, got %q", out)
	}
}

func TestReadRefreshesLinkSample(t *testing.T) {
	sim := NewSimulator()
	d, clock := newTestDecoder(sim, nil)
	d.Read()

	// Read sampled the link channel, so CheckConnection uses that sample.
	sim.Set(ChLink, 0)
	clock.advance(10 * time.Millisecond)
	if !d.CheckConnection() {
		t.Error("fresh link sample from Read was ignored")
	}
}

func TestDump(t *testing.T) {
	sim := NewSimulator()
	sink := &diag.Buffer{}
	d, _ := newTestDecoder(sim, sink)
	d.Read()
	d.Dump()
	if got := sink.String(); got != ":1495:1495:1000:1495:990:1800\n" {
		t.Errorf("Dump wrote %q", got)
	}
}

func TestStateAvailableDuringRead(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	sources := NewSimulator().Sources()
	sources[0] = pulse.SourceFunc(func(timeout time.Duration) time.Duration {
		close(entered)
		<-release
		return 1700 * time.Microsecond
	})
	d := New(sources, nil)

	done := make(chan State)
	go func() {
		done <- d.Read()
	}()
	<-entered

	got := make(chan State)
	go func() {
		got <- d.State()
	}()
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("State blocked while a channel was being timed")
	}

	close(release)
	if s := <-done; s.Raw(1) != 1700 {
		t.Errorf("read stored %d", s.Raw(1))
	}
	if d.State().Raw(1) != 1700 {
		t.Errorf("published state has %d", d.State().Raw(1))
	}
}
