package tunable

import (
	"fmt"
	"sync/atomic"

	"github.com/umangjain-07/ServingRoboB1/pkg/clamp"
)

// Tunable is an integer the operator can nudge while a mode is running.  It
// is read from the control loop and written from the joystick handler.
type Tunable struct {
	Name     string
	Min, Max int64

	value int64
}

// Add nudges the value, staying inside [Min, Max].
func (t *Tunable) Add(delta int) {
	for {
		old := atomic.LoadInt64(&t.value)
		newV := clamp.Between(old+int64(delta), t.Min, t.Max)
		if atomic.CompareAndSwapInt64(&t.value, old, newV) {
			fmt.Println("Tunable", t.Name, "=", newV)
			return
		}
	}
}

func (t *Tunable) Set(v int) {
	atomic.StoreInt64(&t.value, clamp.Between(int64(v), t.Min, t.Max))
}

func (t *Tunable) Get() int {
	return int(atomic.LoadInt64(&t.value))
}

type Tunables struct {
	All      []*Tunable
	selected int
}

func (t *Tunables) Create(name string, value, min, max int) *Tunable {
	newTunable := &Tunable{
		Name: name,
		Min:  int64(min),
		Max:  int64(max),
	}
	newTunable.Set(value)
	t.All = append(t.All, newTunable)
	return newTunable
}

func (t *Tunables) SelectNext() {
	t.selected++
	if t.selected >= len(t.All) {
		t.selected = 0
	}
	fmt.Println("Tunable", t.Current().Name, "selected, value:", t.Current().Get())
}

func (t *Tunables) SelectPrev() {
	t.selected--
	if t.selected < 0 {
		t.selected = len(t.All) - 1
	}
	fmt.Println("Tunable", t.Current().Name, "selected, value:", t.Current().Get())
}

func (t *Tunables) Current() *Tunable {
	return t.All[t.selected]
}
