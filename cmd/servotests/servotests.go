package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/manual"
	"github.com/umangjain-07/ServingRoboB1/pkg/stepper"
)

func main() {
	cfgFile := "/cfg/robot.yaml"
	if len(os.Args) > 1 {
		cfgFile = os.Args[1]
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Println("Failed to load config", err)
		return
	}

	aux, closeAux, err := openAux(cfg.Aux)
	if err != nil {
		fmt.Println("Failed to open aux actuator", err)
		return
	}
	defer closeAux()

	fmt.Println(
		`Commands:
    l [steps]   # Move left
    r [steps]   # Move right

[steps]  Defaults to the aux stick nudge`)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nFailed to read stdin: ", err)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := manual.AuxCommand{Steps: manual.AuxSteps}
		switch parts[0] {
		case "l":
			cmd.Direction = manual.AuxLeft
		case "r":
			cmd.Direction = manual.AuxRight
		default:
			fmt.Println("Unknown command", parts[0])
			continue
		}
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 0 {
				fmt.Println("Expected a step count, not ", parts[1])
				continue
			}
			cmd.Steps = n
		}
		fmt.Println(cmd)
		manual.Apply(cmd, aux)
	}
}

func openAux(ac config.Aux) (stepper.Interface, func(), error) {
	switch ac.Kind {
	case "servo":
		s, err := stepper.NewServo(stepper.ServoConfig{
			Port:         ac.ServoPort,
			ID:           ac.ServoID,
			UnitsPerStep: ac.UnitsPerStep,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.Begin(); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "stepper":
		s, err := stepper.NewGPIO(stepper.Pins{Step: ac.Step, Dir: ac.Dir, Enable: ac.Enable}, time.Duration(ac.PulseDelayUs)*time.Microsecond)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Begin(); err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return &stepper.Recorder{Verbose: true}, func() {}, nil
	}
}
