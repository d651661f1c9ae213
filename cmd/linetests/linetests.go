// linetests samples the line sensor in a loop and prints the reading, the
// zone scores and the decision, without driving the motors.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/linefollow"
)

type Options struct {
	Config string        `short:"c" long:"config" default:"/cfg/robot.yaml" description:"Robot config file"`
	Period time.Duration `short:"p" long:"period" default:"200ms" description:"Time between samples"`
	Raw    bool          `long:"raw" description:"Also print the raw sensor values"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Println("Failed to load config", err)
		os.Exit(1)
	}
	hw, err := hardware.New(cfg, diag.Discard)
	if err != nil {
		fmt.Println("Failed to open hardware", err)
		os.Exit(1)
	}
	defer hw.Shutdown()

	ir := hw.LineSensor()
	for {
		reading := ir.Sample()
		d, rule := linefollow.DecideWithRule(reading, cfg.Line.BaseSpeed)
		fmt.Printf("%v  %+v  %-14v -> %v\n", reading, linefollow.Scores(reading), rule, d)
		if opts.Raw {
			fmt.Println("  raw", ir.Raw())
		}
		time.Sleep(opts.Period)
	}
}
