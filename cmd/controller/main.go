package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/joymode"
	"github.com/umangjain-07/ServingRoboB1/pkg/joystick"
	"github.com/umangjain-07/ServingRoboB1/pkg/linemode"
	"github.com/umangjain-07/ServingRoboB1/pkg/pausemode"
	"github.com/umangjain-07/ServingRoboB1/pkg/rcmode"
	"github.com/umangjain-07/ServingRoboB1/pkg/screen"
	"github.com/umangjain-07/ServingRoboB1/pkg/sound"
	"github.com/umangjain-07/ServingRoboB1/pkg/testmode"
)

type Options struct {
	Config  string `short:"c" long:"config" description:"Robot config file (default $ROBOT_CONFIG or /cfg/robot.yaml)"`
	Dummy   bool   `long:"dummy" description:"Use simulated hardware"`
	Mode    string `short:"m" long:"mode" default:"rc" description:"Mode to start in" choice:"rc" choice:"line" choice:"joy" choice:"pause" choice:"test"`
	Verbose bool   `short:"v" long:"verbose" description:"Print decisions and motor commands"`
}

// robot is the hardware as the controller sees it, lifecycle included.
type robot interface {
	hardware.Interface
	Start(ctx context.Context)
	Shutdown()
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	fmt.Println("---- ServingRobo ----")
	fmt.Println("GOMAXPROCS", runtime.GOMAXPROCS(0))

	env, err := config.ParseEnv()
	if err != nil {
		log.Fatal(err)
	}
	cfgPath := env.ConfigFile
	if opts.Config != "" {
		cfgPath = opts.Config
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg.ApplyEnv(env)
	cfg.WriteInUse(cfgPath)

	var sink diag.Sink = diag.Discard
	if opts.Verbose {
		async := diag.NewAsync(diag.Stdout(), 256)
		defer async.Close(100 * time.Millisecond)
		sink = async
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	hw := openHardware(cfg, sink, opts.Dummy, env.Dummy)
	defer func() {
		fmt.Println("Zeroing motors for shut down")
		hw.Shutdown()
		time.Sleep(100 * time.Millisecond)
	}()
	hw.Start(ctx)

	// The joystick is optional: RC and line modes run without it.
	joystickEvents := make(chan *joystick.Event, 1)
	go initJoystick(ctx, cfg.Joystick.Device, joystickEvents)

	hw.PlaySound(sound.CueStart)

	ring := newModeRing(hw, []Mode{
		rcmode.New("RC mode", hw, cfg),
		linemode.New(hw, cfg),
		joymode.New(hw, cfg),
		pausemode.New(hw),
		testmode.New(hw),
	}, opts.Mode)
	ring.Start(ctx)

	fmt.Println("Waiting for events...")
	watchdog := time.NewTicker(5 * time.Second)
	defer watchdog.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Context done, stopping active mode and shutting down")
			ring.Active().Stop()
			return
		case event := <-joystickEvents:
			// Intercept the Options and Share buttons to implement mode switching.
			if event.Pressed(joystick.ButtonOptions) {
				fmt.Printf("Options pressed: switching modes >>\n")
				ring.Switch(ctx, 1)
				continue
			} else if event.Pressed(joystick.ButtonShare) {
				fmt.Printf("Share pressed: switching modes <<\n")
				ring.Switch(ctx, -1)
				continue
			}
			// Pass other joystick events through if this mode requires them.
			if ju, ok := ring.Active().(JoystickUser); ok {
				done := make(chan struct{})
				go func() {
					defer close(done)
					ju.OnJoystickEvent(event)
				}()
				timeout := time.NewTimer(1 * time.Second)
				select {
				case <-done:
					timeout.Stop()
				case <-timeout.C:
					// Modes only queue the event for their loop; a second's
					// wait means the loop is stuck.
					panic("Deadlock? Active mode blocked OnJoystickEvent for >1s")
				}
			}
		case <-watchdog.C:
			fmt.Println("Main loop still running")
		}
	}
}

// openHardware falls back to simulated devices when asked to, or when the
// real ones fail to open and ROBOT_DUMMY allows it.
func openHardware(cfg config.Config, sink diag.Sink, forceDummy, allowDummy bool) robot {
	if forceDummy {
		return hardware.NewDummy(cfg, sink)
	}
	hw, err := hardware.New(cfg, sink)
	if err != nil {
		if !allowDummy {
			log.Fatalf("Failed to open hardware: %v", err)
		}
		fmt.Println("Failed to open hardware, falling back to dummy:", err)
		return hardware.NewDummy(cfg, sink)
	}
	return hw
}

func initJoystick(ctx context.Context, device string, events chan<- *joystick.Event) {
	const noJoy = "NO JOY"
	firstLog := true
	for ctx.Err() == nil {
		j, err := joystick.NewJoystick(device)
		if err != nil {
			if firstLog {
				screen.SetNotice(noJoy, screen.LevelErr)
				fmt.Printf("Waiting for joystick: %v.\n", err)
				firstLog = false
			}
			time.Sleep(1 * time.Second)
			continue
		}

		screen.ClearNotice(noJoy)
		fmt.Printf("Opened joystick\n")
		err = loopReadingJoystickEvents(ctx, j, events)
		fmt.Printf("Joystick failed: %v\n", err)
		firstLog = true
	}
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

func loopReadingJoystickEvents(ctx context.Context, j *joystick.Joystick, events chan<- *joystick.Event) error {
	defer j.Close()
	for ctx.Err() == nil {
		event, err := j.ReadEvent()
		if err != nil {
			fmt.Printf("Failed to read from joystick: %v.\n", err)
			return err
		}
		fmt.Printf("Joy: %s\n", event)
		select {
		case events <- event:
		case <-ctx.Done():
		}
	}
	return ctx.Err()
}
