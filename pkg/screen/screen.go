// Package screen draws the robot's face and status on the 128x128 SPI
// framebuffer.
package screen

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/fogleman/gg"
)

const S = 128

type Level int

const (
	LevelInfo Level = iota
	LevelErr
)

type Mood int

const (
	MoodNeutral Mood = iota
	MoodHappy
	MoodSad
	MoodSleepy
)

type notice struct {
	text  string
	level Level
}

// Status is everything shown on the screen.
type Status struct {
	Mode      string
	Connected bool
	Command   string
	// Look is -1 (left) to 1 (right); the eyes follow the direction of travel.
	Look   float64
	Mood   Mood
	Notice string
	Level  Level
}

var (
	lock    sync.Mutex
	current Status
	notices []notice
)

func SetMode(name string) {
	lock.Lock()
	defer lock.Unlock()
	current.Mode = name
}

func SetLink(connected bool) {
	lock.Lock()
	defer lock.Unlock()
	current.Connected = connected
}

// SetCommand records the last drive command, its eye direction and mood.
func SetCommand(cmd string, look float64, mood Mood) {
	lock.Lock()
	defer lock.Unlock()
	current.Command = cmd
	current.Look = look
	current.Mood = mood
}

func SetNotice(text string, level Level) {
	lock.Lock()
	defer lock.Unlock()
	for _, n := range notices {
		if n.text == text {
			return
		}
	}
	notices = append(notices, notice{text: text, level: level})
}

func ClearNotice(text string) {
	lock.Lock()
	defer lock.Unlock()
	for i, n := range notices {
		if n.text == text {
			notices = append(notices[:i], notices[i+1:]...)
			return
		}
	}
}

// Snapshot returns the status as it would be drawn now.
func Snapshot() Status {
	lock.Lock()
	defer lock.Unlock()
	s := current
	if len(notices) > 0 {
		n := notices[len(notices)-1]
		s.Notice, s.Level = n.text, n.level
	}
	return s
}

func LoopUpdatingScreen(ctx context.Context, device string) {
	f, err := os.OpenFile(device, os.O_RDWR, 0666)
	if err != nil {
		fmt.Println("Failed to open screen, ignoring")
		return
	}
	defer f.Close()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if ctx.Err() != nil {
			var buf [S * S * 2]byte
			_, _ = f.Seek(0, 0)
			_, _ = f.Write(buf[:])
			return
		}
		buf := Encode(Render(Snapshot()))
		if _, err := f.Seek(0, 0); err != nil {
			fmt.Println("Screen failure: ", err)
			return
		}
		for i := 0; i < S; i++ {
			if _, err := f.Write(buf[i*S*2 : (i+1)*S*2]); err != nil {
				fmt.Println("Screen failure: ", err)
				return
			}
			time.Sleep(10 * time.Microsecond)
		}
	}
}

// Render draws one frame.
func Render(s Status) image.Image {
	dc := gg.NewContext(S, S)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	drawEyes(dc, s)

	dc.SetRGB(0.4, 0.7, 1)
	dc.DrawString(s.Mode, 4, 12)
	dc.DrawString(s.Command, 4, S-6)

	// Link lamp in the top right corner.
	if s.Connected {
		dc.SetRGB(0, 0.9, 0.2)
	} else {
		dc.SetRGB(1, 0.2, 0)
	}
	dc.DrawCircle(S-8, 8, 4)
	dc.Fill()

	if s.Notice != "" {
		dc.Push()
		dc.Translate(14, S-30)
		if s.Level == LevelErr {
			DrawWarning(dc)
		}
		dc.SetRGB(1, 0.9, 0)
		dc.DrawString(s.Notice, 14, 4)
		dc.Pop()
	}
	return dc.Image()
}

func drawEyes(dc *gg.Context, s Status) {
	const (
		eyeW   = 34
		eyeGap = 14
		eyeY   = 40
	)
	eyeH := 40.0
	switch s.Mood {
	case MoodSleepy:
		eyeH = 8
	case MoodSad:
		eyeH = 26
	}
	shift := s.Look * 12
	left := float64(S/2-eyeGap/2-eyeW) + shift
	right := float64(S/2+eyeGap/2) + shift
	top := eyeY + (40-eyeH)/2

	dc.SetRGB(0, 0.86, 1)
	dc.DrawRoundedRectangle(left, top, eyeW, eyeH, 8)
	dc.DrawRoundedRectangle(right, top, eyeW, eyeH, 8)
	dc.Fill()

	switch s.Mood {
	case MoodHappy:
		// Cut the bottom of the eyes into a smile.
		dc.SetRGB(0, 0, 0)
		dc.DrawEllipse(left+eyeW/2, top+eyeH+6, eyeW*0.7, 14)
		dc.DrawEllipse(right+eyeW/2, top+eyeH+6, eyeW*0.7, 14)
		dc.Fill()
	case MoodSad:
		dc.SetRGB(0, 0, 0)
		dc.MoveTo(left-2, top-2)
		dc.LineTo(left+eyeW, top-2)
		dc.LineTo(left-2, top+10)
		dc.ClosePath()
		dc.MoveTo(right+eyeW+2, top-2)
		dc.LineTo(right, top-2)
		dc.LineTo(right+eyeW+2, top+10)
		dc.ClosePath()
		dc.Fill()
	}
}

// Encode packs an image as RGB565 in the panel's rotated scan order.
func Encode(img image.Image) []byte {
	buf := make([]byte, S*S*2)
	for y := 0; y < S; y++ {
		for x := 0; x < S; x++ {
			r, g, b, _ := img.At(x, y).RGBA() // 16-bit pre-multiplied

			rb := byte(r >> (16 - 5))
			gb := byte(g >> (16 - 6)) // Green has 6 bits
			bb := byte(b >> (16 - 5))

			buf[(S-1-y)*2+x*S*2+1] = (rb << 3) | (gb >> 3)
			buf[(S-1-y)*2+x*S*2] = bb | (gb << 5)
		}
	}
	return buf
}

func DrawWarning(dc *gg.Context) {
	dc.SetRGB(1, 0.2, 0)
	dc.DrawRegularPolygon(3, 0, 0, 14, 0)
	dc.Fill()
	dc.SetRGBA(0, 0, 0, 0.9)
	dc.DrawString("!", -3, 3)
}
