// rxmonitor shows the RC receiver live: every channel's pulse width, the
// derived speed and follow flag, link status and the drive intent the
// sticks would produce.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jessevdk/go-flags"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/umangjain-07/ServingRoboB1/pkg/config"
	"github.com/umangjain-07/ServingRoboB1/pkg/manual"
	"github.com/umangjain-07/ServingRoboB1/pkg/receiver"
)

type Options struct {
	Config string `short:"c" long:"config" default:"/cfg/robot.yaml" description:"Robot config file"`
	Hz     int    `long:"hz" default:"20" description:"Sample rate"`
	Dummy  bool   `long:"dummy" description:"Monitor a simulated receiver; arrow keys move the sticks"`
}

const (
	maxLogs     = 5
	chartHeight = 12
)

const (
	seriesSpeed = "speed"
	seriesA     = "ch1"
	seriesB     = "ch2"
)

var seriesColors = map[string]string{
	seriesSpeed: "46",  // green
	seriesA:     "208", // orange
	seriesB:     "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

var channelNames = [receiver.NumChannels]string{"drive A", "drive B", "follow", "aux", "speed", "link"}

// logSink turns decoder messages into TUI log lines.
type logSink chan string

func (s logSink) Printf(format string, args ...interface{}) {
	select {
	case s <- strings.TrimRight(fmt.Sprintf(format, args...), "\n"):
	default:
	}
}

type stateMsg receiver.State
type logMsg string

type model struct {
	states <-chan receiver.State
	logs   logSink
	sim    *receiver.Simulator
	chart  *streamlinechart.Model
	hz     int

	state    receiver.State
	lines    []string
	width    int
	quitting bool
}

func waitForState(states <-chan receiver.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-states)
	}
}

func waitForLog(logs logSink) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-logs)
	}
}

func initialModel(states <-chan receiver.State, logs logSink, sim *receiver.Simulator, hz int) model {
	// Widths are plotted as speed-scale values so the three series share an axis.
	chart := streamlinechart.New(80, chartHeight,
		streamlinechart.WithYRange(-255, 255),
	)
	for name, color := range seriesColors {
		chart.SetDataSetStyles(name, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(lipgloss.Color(color)))
	}
	return model{
		states: states,
		logs:   logs,
		sim:    sim,
		chart:  &chart,
		hz:     hz,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.states), waitForLog(m.logs))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 4
		if w < 40 {
			w = 40
		}
		m.chart.Resize(w, chartHeight)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if m.sim != nil {
			nudgeSimulator(m.sim, msg.String())
		}

	case stateMsg:
		m.state = receiver.State(msg)
		m.chart.PushDataSet(seriesSpeed, float64(m.state.Speed))
		m.chart.PushDataSet(seriesA, stickScale(m.state.Raw(receiver.ChDriveA)))
		m.chart.PushDataSet(seriesB, stickScale(m.state.Raw(receiver.ChDriveB)))
		m.chart.DrawAll()
		return m, waitForState(m.states)

	case logMsg:
		m.lines = append(m.lines, time.Now().Format("15:04:05 ")+string(msg))
		if len(m.lines) > maxLogs {
			m.lines = m.lines[len(m.lines)-maxLogs:]
		}
		return m, waitForLog(m.logs)
	}
	return m, nil
}

// stickScale centres a stick width on zero; no pulse plots as zero.
func stickScale(raw int) float64 {
	if raw == 0 {
		return 0
	}
	return float64(raw-(receiver.NeutralLow+receiver.NeutralHigh)/2) / 2
}

func nudgeSimulator(sim *receiver.Simulator, key string) {
	const step = 100
	switch key {
	case "up":
		sim.Set(receiver.ChDriveA, sim.Get(receiver.ChDriveA)+step)
		sim.Set(receiver.ChDriveB, sim.Get(receiver.ChDriveB)+step)
	case "down":
		sim.Set(receiver.ChDriveA, sim.Get(receiver.ChDriveA)-step)
		sim.Set(receiver.ChDriveB, sim.Get(receiver.ChDriveB)-step)
	case "right":
		sim.Set(receiver.ChDriveB, sim.Get(receiver.ChDriveB)-step)
	case "left":
		sim.Set(receiver.ChDriveA, sim.Get(receiver.ChDriveA)-step)
	case "+":
		sim.Set(receiver.ChSpeed, sim.Get(receiver.ChSpeed)+step)
	case "-":
		sim.Set(receiver.ChSpeed, sim.Get(receiver.ChSpeed)-step)
	case "f":
		if sim.Get(receiver.ChFollow) > receiver.NeutralHigh {
			sim.Set(receiver.ChFollow, 1000)
		} else {
			sim.Set(receiver.ChFollow, 1800)
		}
	case "l":
		if receiver.Armed(sim.Get(receiver.ChLink)) {
			sim.Set(receiver.ChLink, 0)
		} else {
			sim.Set(receiver.ChLink, 1800)
		}
	case " ":
		for ch := receiver.ChDriveA; ch <= receiver.ChDriveB; ch++ {
			sim.Set(ch, 1495)
		}
	}
}

func (m model) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("RC receiver"))
	sb.WriteString(fmt.Sprintf(" - %d Hz  ", m.hz))
	if m.state.Connected {
		sb.WriteString(okStyle.Render("LINK"))
	} else {
		sb.WriteString(badStyle.Render("NO LINK"))
	}
	sb.WriteString("\n\n")

	for i, c := range m.state.Channels {
		sb.WriteString(fmt.Sprintf("  ch%d %-8s %5d us\n", i+1, channelNames[i], c.RawUs))
	}
	intent, aux := manual.FromChannels(m.state)
	sb.WriteString(fmt.Sprintf("\n  speed %3d  follow %-5v  %v  %v\n\n", m.state.Speed, m.state.Follow, intent, aux))

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	help := "Press 'q' to quit"
	if m.sim != nil {
		help += ", arrows move sticks, +/- speed, f follow, l link, space centre"
	}
	if len(m.lines) == 0 {
		sb.WriteString(statusStyle.Render(help))
	} else {
		sb.WriteString(strings.Join(m.lines, "\n"))
	}
	sb.WriteString("\n")
	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range []string{seriesSpeed, seriesA, seriesB} {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(seriesColors[name])).Bold(true)
		items = append(items, style.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}

// poll samples the receiver at hz until ctx is done.
func poll(ctx context.Context, rx *receiver.Decoder, hz int, states chan<- receiver.State) {
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		rx.CheckConnection()
		s := rx.Read()
		select {
		case states <- s:
		default:
		}
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
	if opts.Hz <= 0 {
		opts.Hz = 20
	}

	logs := make(logSink, 16)
	var rx *receiver.Decoder
	var sim *receiver.Simulator
	if opts.Dummy {
		sim = receiver.NewSimulator()
		rx = receiver.New(sim.Sources(), logs)
	} else {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			log.Fatal(err)
		}
		var pins [receiver.NumChannels]string
		copy(pins[:], cfg.Receiver.Pins)
		if rx, err = receiver.NewGPIO(pins, logs); err != nil {
			log.Fatalf("Failed to open receiver: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := make(chan receiver.State, 1)
	go poll(ctx, rx, opts.Hz, states)

	p := tea.NewProgram(initialModel(states, logs, sim, opts.Hz), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
