package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
)

// Each line of input sets the mode name, except:
//
//	!<text>   raise an error notice
//	-<text>   clear a notice
//	< > ^     look left, right or ahead
//	link      toggle the link lamp
func main() {
	device := "/dev/fb1"
	if len(os.Args) > 1 {
		device = os.Args[1]
	}
	ctx := context.Background()

	go screen.LoopUpdatingScreen(ctx, device)

	screen.SetMode("screen test")
	link := false

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "!"):
			screen.SetNotice(line[1:], screen.LevelErr)
		case strings.HasPrefix(line, "-"):
			screen.ClearNotice(line[1:])
		case line == "<":
			screen.SetCommand("left", -1, screen.MoodHappy)
		case line == ">":
			screen.SetCommand("right", 1, screen.MoodHappy)
		case line == "^":
			screen.SetCommand("stop", 0, screen.MoodNeutral)
		case line == "link":
			link = !link
			screen.SetLink(link)
		default:
			screen.SetMode(line)
		}
	}
}
