package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/umangjain-07/ServingRoboB1/pkg/mcp3008"
)

// Dumps every MCP3008 channel a few times a second; the line sensor and an
// analog thumbstick both hang off this chip.
type Options struct {
	Device string        `short:"d" long:"device" default:"/dev/spidev0.0" description:"SPI device of the MCP3008"`
	Period time.Duration `short:"p" long:"period" default:"250ms" description:"Time between dumps"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	refs := spireg.All()
	for _, r := range refs {
		log.Printf("Port ref: %v", r)
	}

	adc, err := mcp3008.New(opts.Device)
	if err != nil {
		log.Fatal(err)
	}
	defer adc.Close()

	for range time.NewTicker(opts.Period).C {
		var sb strings.Builder
		for ch := 0; ch < mcp3008.NumChannels; ch++ {
			v, err := adc.ReadChannel(ch)
			if err != nil {
				fmt.Fprintf(&sb, " ch%d=ERR", ch)
				continue
			}
			fmt.Fprintf(&sb, " ch%d=%4d", ch, v)
		}
		fmt.Println(sb.String())
	}
}
