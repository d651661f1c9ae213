// directctl is a bench shell for driving the robot's devices by hand.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/abiosoft/ishell"
	"github.com/jessevdk/go-flags"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/diag"
	"github.com/umangjain-07/ServingRoboB1/pkg/drive"
	"github.com/umangjain-07/ServingRoboB1/pkg/hardware"
	"github.com/umangjain-07/ServingRoboB1/pkg/linefollow"
	"github.com/umangjain-07/ServingRoboB1/pkg/manual"
)

type Options struct {
	Config string `short:"c" long:"config" default:"/cfg/robot.yaml" description:"Robot config file"`
	Dummy  bool   `long:"dummy" description:"Use simulated hardware"`
}

const (
	defaultSpeed = 100
	auxHelp      = "aux <left|right> [steps]"
)

type robot interface {
	hardware.Interface
	Start(ctx context.Context)
	Shutdown()
}

// argInt parses the i'th argument, falling back to def when absent.
func argInt(c *ishell.Context, i, def int) (int, error) {
	if len(c.Args) <= i {
		return def, nil
	}
	return strconv.Atoi(c.Args[i])
}

func driveCmd(hw robot, name, help string, intent func(int) drive.Intent) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: help,
		Func: func(c *ishell.Context) {
			speed, err := argInt(c, 0, defaultSpeed)
			if err != nil {
				c.Err(err)
				return
			}
			cmd := hw.Base().Drive(intent(speed))
			c.Printf("%v -> %v\n", intent(speed), cmd)
		},
	}
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
	sink := diag.Stdout()

	var hw robot
	if opts.Dummy {
		hw = hardware.NewDummy(cfg, sink)
	} else if hw, err = hardware.New(cfg, sink); err != nil {
		log.Fatalf("Failed to open hardware: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	hw.Start(ctx)
	defer func() {
		cancel()
		hw.Shutdown()
	}()

	shell := ishell.New()
	shell.Println("Robot direct control shell")

	shell.AddCmd(driveCmd(hw, "fwd", "fwd [speed]", drive.Forward))
	shell.AddCmd(driveCmd(hw, "back", "back [speed]", drive.Backward))
	shell.AddCmd(driveCmd(hw, "left", "left [speed]  pivot left", drive.TurnLeft))
	shell.AddCmd(driveCmd(hw, "right", "right [speed]  pivot right", drive.TurnRight))
	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "stop both wheels",
		Func: func(c *ishell.Context) {
			hw.StopMotorControl()
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "aux",
		Help: auxHelp,
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Println(auxHelp)
				return
			}
			steps, err := argInt(c, 1, manual.AuxSteps)
			if err != nil {
				c.Err(err)
				return
			}
			aux := manual.AuxCommand{Steps: steps}
			switch c.Args[0] {
			case "left":
				aux.Direction = manual.AuxLeft
			case "right":
				aux.Direction = manual.AuxRight
			default:
				c.Println(auxHelp)
				return
			}
			manual.Apply(aux, hw.Aux())
			c.Println(aux)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "enc",
		Help: "enc [reset]  show the wheel encoder position",
		Func: func(c *ishell.Context) {
			odo := hw.Odometer()
			if odo == nil {
				c.Println("encoder disabled")
				return
			}
			if len(c.Args) > 0 && c.Args[0] == "reset" {
				odo.Reset()
			}
			c.Println("Position:", odo.Position())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "dist",
		Help: "dist  measure the ultrasonic range once",
		Func: func(c *ishell.Context) {
			r := hw.Ranger()
			if r == nil {
				c.Println("ultrasonic disabled")
				return
			}
			cm := r.ReadDistanceCm()
			c.Printf("%.1f cm, speed %d would be limited to %d\n",
				cm, defaultSpeed, r.SpeedLimit(defaultSpeed, cfg.Ultrasonic.MaxDistanceCm))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "ir",
		Help: "ir  sample the line sensor and show the decision",
		Func: func(c *ishell.Context) {
			ir := hw.LineSensor()
			reading := ir.Sample()
			ir.Debug()
			d, rule := linefollow.DecideWithRule(reading, cfg.Line.BaseSpeed)
			c.Printf("%v %+v -> %v (%v)\n", reading, linefollow.Scores(reading), d, rule)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "rx",
		Help: "rx  read the RC receiver once",
		Func: func(c *ishell.Context) {
			rx := hw.Receiver()
			connected := rx.CheckConnection()
			s := rx.Read()
			rx.Dump()
			intent, aux := manual.FromChannels(s)
			c.Printf("connected=%v speed=%d follow=%v -> %v, %v\n", connected, s.Speed, s.Follow, intent, aux)
		},
	})

	shell.Run()
	fmt.Println("Bye")
}
