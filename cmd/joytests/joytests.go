// joytests prints what the joystick drive mapping makes of live input, from
// either the gamepad or an analog thumbstick on the MCP3008.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/manual"
	"github.com/umangjain-07/ServingRoboB1/pkg/mcp3008"
)

type Options struct {
	Config string `short:"c" long:"config" default:"/cfg/robot.yaml" description:"Robot config file"`
	ADC    string `long:"adc" description:"Read an analog stick from this SPI device instead of the gamepad"`
	XChan  int    `long:"x-channel" default:"0" description:"ADC channel of the X axis"`
	YChan  int    `long:"y-channel" default:"1" description:"ADC channel of the Y axis"`
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
		log.Fatal(err)
	}
	env, err := config.ParseEnv()
	if err != nil {
		log.Fatal(err)
	}
	cfg.ApplyEnv(env)
	stick := manual.Joystick{
		CenterX:  cfg.Joystick.CenterX,
		CenterY:  cfg.Joystick.CenterY,
		DeadZone: cfg.Joystick.DeadZone,
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	if opts.ADC != "" {
		readADC(ctx, opts, stick)
		return
	}

	// Wait for the joystick and kick off a background thread to read from it.
	joystickEvents := initJoystick(cancel, ctx, cfg.Joystick.Device)
	axes := joystick.NewAxes()
	for je := range joystickEvents {
		if !axes.Apply(je) {
			fmt.Println(je)
			continue
		}
		x, y := axes.Analog(joystick.AxisLStickX), axes.Analog(joystick.AxisLStickY)
		fmt.Printf("%v  x=%4d y=%4d -> %v\n", je, x, y, stick.Decide(x, y))
	}
}

func readADC(ctx context.Context, opts Options, stick manual.Joystick) {
	adc, err := mcp3008.New(opts.ADC)
	if err != nil {
		log.Fatalf("Failed to open ADC: %v", err)
	}
	defer adc.Close()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		x, err := adc.ReadChannel(opts.XChan)
		if err != nil {
			fmt.Println("X read failed:", err)
			continue
		}
		y, err := adc.ReadChannel(opts.YChan)
		if err != nil {
			fmt.Println("Y read failed:", err)
			continue
		}
		fmt.Printf("x=%4d y=%4d  mapped %4d %4d -> %v\n", x, y,
			manual.MapToSpeed(x, stick.CenterX, stick.DeadZone),
			manual.MapToSpeed(y, stick.CenterY, stick.DeadZone),
			stick.Decide(x, y))
	}
}

func initJoystick(cancel context.CancelFunc, ctx context.Context, jDev string) chan *joystick.Event {
	joystickEvents := make(chan *joystick.Event)
	firstLog := true
	for {
		j, err := joystick.NewJoystick(jDev)
		if err != nil {
			if firstLog {
				fmt.Printf("Waiting for joystick: %v.\n", err)
				firstLog = false
			}
			time.Sleep(1 * time.Second)
			continue
		}

		fmt.Printf("Opened joystick\n")
		go func() {
			defer cancel()
			err := loopReadingJoystickEvents(ctx, j, joystickEvents)
			fmt.Printf("Joystick failed: %v\n", err)
		}()
		break
	}
	return joystickEvents
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}

func loopReadingJoystickEvents(ctx context.Context, j *joystick.Joystick, events chan *joystick.Event) error {
	defer close(events)
	defer j.Close()
	for ctx.Err() == nil {
		event, err := j.ReadEvent()
		if err != nil {
			fmt.Printf("Failed to read from joystick: %v.\n", err)
			return err
		}
		events <- event
	}
	return ctx.Err()
}
