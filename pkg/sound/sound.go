// Package sound plays short wav cues so the operator can hear mode and link
// changes without looking at the robot.
package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

type Cue string

const (
	CueStart     Cue = "start"
	CueLineMode  Cue = "linemode"
	CueRCMode    Cue = "rcmode"
	CueJoyMode   Cue = "joymode"
	CuePause     Cue = "pausemode"
	CueTestMode  Cue = "testmode"
	CueConnected Cue = "connected"
	CueLinkLost  Cue = "linklost"
	CueLineLost  Cue = "linelost"
)

// Path is where a cue's wav lives under dir.
func Path(dir string, c Cue) string {
	return filepath.Join(dir, string(c)+".wav")
}

// InitSound starts the player goroutine.  Send file paths on the returned
// channel; a new sound cuts off the one playing.  Close the channel to stop.
func InitSound() chan string {
	soundsToPlay := make(chan string)
	go func() {
		defer func() {
			recover()
			for s := range soundsToPlay {
				fmt.Println("Unable to play", s)
			}
		}()
		sampleRate := beep.SampleRate(44100)
		err := speaker.Init(sampleRate, sampleRate.N(time.Second/5))
		if err != nil {
			fmt.Println("Failed to open speaker", err)
			for s := range soundsToPlay {
				fmt.Println("Unable to play", s)
			}
			return
		}
		var ctrl *beep.Ctrl
		var s beep.StreamSeekCloser
		for soundToPlay := range soundsToPlay {
			if ctrl != nil {
				speaker.Lock()
				ctrl.Paused = true
				ctrl.Streamer = nil
				speaker.Unlock()
				ctrl = nil
			}
			if s != nil {
				s.Close()
				s = nil
			}

			f, err := os.Open(soundToPlay)
			if err != nil {
				fmt.Println("Failed to open sound", err)
				continue
			}
			s, _, err = wav.Decode(f)
			if err != nil {
				fmt.Println("Failed to decode sound", err)
				f.Close()
				continue
			}
			ctrl = &beep.Ctrl{Streamer: s}
			speaker.Play(ctrl)
		}
	}()
	return soundsToPlay
}

// Player queues cues without ever blocking the caller for long.
type Player struct {
	dir  string
	play chan string
}

func NewPlayer(dir string, play chan string) *Player {
	return &Player{dir: dir, play: play}
}

func (p *Player) Play(c Cue) {
	if p == nil || p.play == nil {
		return
	}
	path := Path(p.dir, c)
	defer func() {
		recover() // Don't die if the channel is already closed.
	}()
	select {
	case p.play <- path:
	case <-time.After(10 * time.Millisecond):
		fmt.Println("Timed out trying to play sound: ", path)
	}
}

func (p *Player) Close() {
	if p == nil || p.play == nil {
		return
	}
	defer func() {
		recover()
	}()
	close(p.play)
}
