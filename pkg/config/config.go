// Package config loads the robot's wiring and tuning from YAML.
//
// Anything missing from the file keeps its built-in default.  The effective
// config is written back out next to the input so that what the robot
// actually ran with can be inspected after a run.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	DefaultPath = "/cfg/robot.yaml"
	InUseSuffix = "-in-use"
)

type Motor struct {
	PWM string `yaml:"pwm"`
	Dir string `yaml:"dir"`
}

type Motors struct {
	Left  Motor `yaml:"left"`
	Right Motor `yaml:"right"`
}

type Receiver struct {
	// Pins lists channels 1 to 6 in order.
	Pins []string `yaml:"pins"`
}

type Reflectance struct {
	Mode      string `yaml:"mode"`
	Threshold int    `yaml:"threshold"`
	// Analog mode reads an MCP3008 on this SPI device.
	SPIDevice string `yaml:"spi_device"`
	Channels  []int  `yaml:"channels,omitempty"`
	// Digital mode reads one GPIO per sensor.
	Pins     []string `yaml:"pins,omitempty"`
	PowerPin string   `yaml:"power_pin"`
}

type Ultrasonic struct {
	Enabled       bool    `yaml:"enabled"`
	Trig          string  `yaml:"trig"`
	Echo          string  `yaml:"echo"`
	MaxDistanceCm float64 `yaml:"max_distance_cm"`
}

type Encoder struct {
	Enabled bool   `yaml:"enabled"`
	Clk     string `yaml:"clk"`
	Dt      string `yaml:"dt"`
}

type Aux struct {
	// Kind is "stepper", "servo" or "none".
	Kind         string `yaml:"kind"`
	Step         string `yaml:"step"`
	Dir          string `yaml:"dir"`
	Enable       string `yaml:"enable"`
	PulseDelayUs int    `yaml:"pulse_delay_us"`
	ServoPort    string `yaml:"servo_port"`
	ServoID      int    `yaml:"servo_id"`
	UnitsPerStep int    `yaml:"units_per_step"`
}

type Joystick struct {
	Device   string `yaml:"device"`
	CenterX  int    `yaml:"center_x"`
	CenterY  int    `yaml:"center_y"`
	DeadZone int    `yaml:"dead_zone"`
}

type Line struct {
	BaseSpeed int `yaml:"base_speed"`
	LoopHz    int `yaml:"loop_hz"`
}

type RC struct {
	// FailsafeGatesDrive stops the robot whenever the link channel is out
	// of its armed band.
	FailsafeGatesDrive bool `yaml:"failsafe_gates_drive"`
	LoopHz             int  `yaml:"loop_hz"`
	DumpChannels       bool `yaml:"dump_channels"`
}

type Screen struct {
	Device string `yaml:"device"`
}

type Sound struct {
	Dir string `yaml:"dir"`
}

type Config struct {
	Motors      Motors      `yaml:"motors"`
	Receiver    Receiver    `yaml:"receiver"`
	Reflectance Reflectance `yaml:"reflectance"`
	Ultrasonic  Ultrasonic  `yaml:"ultrasonic"`
	Encoder     Encoder     `yaml:"encoder"`
	Aux         Aux         `yaml:"aux"`
	Joystick    Joystick    `yaml:"joystick"`
	Line        Line        `yaml:"line"`
	RC          RC          `yaml:"rc"`
	Screen      Screen      `yaml:"screen"`
	Sound       Sound       `yaml:"sound"`
}

// Env holds the environment overrides.
type Env struct {
	ConfigFile     string `env:"ROBOT_CONFIG" envDefault:"/cfg/robot.yaml"`
	JoystickDevice string `env:"JOYSTICK_DEVICE"`
	Dummy          bool   `env:"ROBOT_DUMMY" envDefault:"false"`
	SoundsDir      string `env:"ROBOT_SOUNDS_DIR"`
}

func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "parse environment")
	}
	return e, nil
}

func Default() Config {
	return Config{
		Motors: Motors{
			Left:  Motor{PWM: "GPIO12", Dir: "GPIO5"},
			Right: Motor{PWM: "GPIO13", Dir: "GPIO6"},
		},
		Receiver: Receiver{
			Pins: []string{"GPIO17", "GPIO27", "GPIO22", "GPIO23", "GPIO24", "GPIO25"},
		},
		Reflectance: Reflectance{
			Mode:      "analog",
			Threshold: 500,
			SPIDevice: "/dev/spidev0.0",
			Channels:  []int{0, 1, 2, 3, 4, 5, 6, 7},
		},
		Ultrasonic: Ultrasonic{
			Trig:          "GPIO20",
			Echo:          "GPIO21",
			MaxDistanceCm: 100,
		},
		Encoder: Encoder{
			Clk: "GPIO19",
			Dt:  "GPIO26",
		},
		Aux: Aux{
			Kind:         "stepper",
			Step:         "GPIO16",
			Dir:          "GPIO7",
			Enable:       "GPIO8",
			PulseDelayUs: 156,
			ServoPort:    "/dev/ttyUSB0",
			ServoID:      1,
			UnitsPerStep: 4,
		},
		Joystick: Joystick{
			Device:   "/dev/input/js0",
			CenterX:  512,
			CenterY:  512,
			DeadZone: 30,
		},
		Line: Line{
			BaseSpeed: 90,
			LoopHz:    100,
		},
		RC: RC{
			FailsafeGatesDrive: true,
			LoopHz:             20,
		},
		Screen: Screen{Device: "/dev/fb1"},
		Sound:  Sound{Dir: "/sounds"},
	}
}

// Load reads path over the defaults.  A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Println("Config: no", path, "using defaults")
		return cfg, nil
	} else if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse overlays YAML onto cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse yaml")
	}
	return cfg.Validate()
}

// ApplyEnv lets the environment override the file.
func (c *Config) ApplyEnv(e Env) {
	if e.JoystickDevice != "" {
		c.Joystick.Device = e.JoystickDevice
	}
	if e.SoundsDir != "" {
		c.Sound.Dir = e.SoundsDir
	}
}

func (c *Config) Validate() error {
	if len(c.Receiver.Pins) != 6 {
		return errors.Errorf("receiver needs 6 pins, got %d", len(c.Receiver.Pins))
	}
	switch c.Reflectance.Mode {
	case "analog":
		if len(c.Reflectance.Channels) == 0 {
			return errors.New("analog reflectance needs ADC channels")
		}
	case "digital":
		if len(c.Reflectance.Pins) == 0 {
			return errors.New("digital reflectance needs pins")
		}
	default:
		return errors.Errorf("unknown reflectance mode %q", c.Reflectance.Mode)
	}
	switch c.Aux.Kind {
	case "stepper", "servo", "none":
	default:
		return errors.Errorf("unknown aux kind %q", c.Aux.Kind)
	}
	if c.Line.LoopHz <= 0 || c.RC.LoopHz <= 0 {
		return errors.New("loop rates must be positive")
	}
	return nil
}

// NumSensors is the size of the reflectance array the config describes.
func (c *Config) NumSensors() int {
	if c.Reflectance.Mode == "digital" {
		return len(c.Reflectance.Pins)
	}
	return len(c.Reflectance.Channels)
}

// InUsePath maps /cfg/robot.yaml to /cfg/robot-in-use.yaml.
func InUsePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + InUseSuffix + ext
}

// WriteInUse records the effective config.  Failure is logged, not fatal.
func (c *Config) WriteInUse(path string) {
	fmt.Printf("Using config: %#v\n", *c)
	data, err := yaml.Marshal(c)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := ioutil.WriteFile(InUsePath(path), data, 0666); err != nil {
		fmt.Println(err)
	}
}
