package screen

import (
	"image"
	"image/color"
	"testing"
)

func TestEncodeWhiteAndBlack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, S, S))
	img.Set(0, S-1, color.White)

	buf := Encode(img)
	// (0, S-1) lands at the start of the buffer after rotation.
	if buf[0] != 0xff || buf[1] != 0xff {
		t.Errorf("white pixel encoded as %#x %#x", buf[0], buf[1])
	}
	if buf[2] != 0 || buf[3] != 0 {
		t.Errorf("black pixel encoded as %#x %#x", buf[2], buf[3])
	}
}

func TestNotices(t *testing.T) {
	SetNotice("NO JOY", LevelErr)
	SetNotice("NO JOY", LevelErr)
	if s := Snapshot(); s.Notice != "NO JOY" || s.Level != LevelErr {
		t.Errorf("notice not shown: %+v", s)
	}
	ClearNotice("NO JOY")
	if s := Snapshot(); s.Notice != "" {
		t.Errorf("notice not cleared: %+v", s)
	}
}

func TestRenderLinkLamp(t *testing.T) {
	lamp := func(connected bool) color.Color {
		img := Render(Status{Mode: "RC mode", Connected: connected})
		return img.At(S-8, 8)
	}
	r, g, _, _ := lamp(true).RGBA()
	if g <= r {
		t.Error("connected lamp should be green")
	}
	r, g, _, _ = lamp(false).RGBA()
	if r <= g {
		t.Error("disconnected lamp should be red")
	}
}

func TestRenderMoods(t *testing.T) {
	for _, m := range []Mood{MoodNeutral, MoodHappy, MoodSad, MoodSleepy} {
		img := Render(Status{Mood: m, Look: -1, Notice: "LINE", Level: LevelErr})
		if img.Bounds().Dx() != S {
			t.Fatalf("mood %d rendered %v", m, img.Bounds())
		}
	}
}
