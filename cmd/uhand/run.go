package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/uhand/pkg/action"
	"github.com/gwillem/uhand/pkg/control"
	"github.com/gwillem/uhand/pkg/hand"
)

type RunCommand struct {
	Hz   int    `long:"hz" default:"10" description:"Control loop frequency"`
	Mode string `long:"mode" default:"manual" choice:"manual" choice:"face" choice:"clamp" choice:"trace" description:"Loop behavior"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Joint colors - distinct colors for each joint
var jointColors = map[hand.JointName]string{
	hand.Thumb:       "196", // red
	hand.Index:       "208", // orange
	hand.Middle:      "226", // yellow
	hand.Ring:        "46",  // green
	hand.Pinky:       "51",  // cyan
	hand.WristRotate: "201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type runModel struct {
	ctrl       *control.Controller
	chart      *streamlinechart.Model
	width      int      // terminal width
	height     int      // terminal height
	logs       []string // last N log messages
	quitting   bool
	lastAngles action.Frame // track previous angles to detect movement
	haveAngles bool
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg control.State
type logMsg string

func waitForState(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *control.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialRunModel(ctrl *control.Controller) runModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, hand.MaxDegrees),
	)

	// Set up data set styles for each joint
	for _, name := range hand.AllJoints() {
		color := jointColors[name]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return runModel{
		ctrl:  ctrl,
		chart: &chart,
	}
}

func (m runModel) Init() tea.Cmd {
	// Start listening for state and log updates
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// Number keys trigger builtin gestures
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			names := action.Names()
			if n := int(key[0] - '1'); n < len(names) {
				if err := m.ctrl.Trigger(names[n]); err != nil {
					m.addLog(err.Error())
				}
			}
		}
		return m, nil

	case stateMsg:
		state := control.State(msg)
		// Only update chart when angles move (freeze when idle)
		if !m.haveAngles || state.Angles != m.lastAngles {
			for i, name := range hand.AllJoints() {
				m.chart.PushDataSet(string(name), float64(state.Angles[i]))
			}
			m.chart.DrawAll()
			m.lastAngles = state.Angles
			m.haveAngles = true
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return "Control loop stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("uHand Run"))
	sb.WriteString(fmt.Sprintf(" - %d Hz, %s mode", m.ctrl.Hz(), m.ctrl.Mode()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render(gestureKeysHint() + "  -  'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, name := range hand.AllJoints() {
		color := jointColors[name]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(name)
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func gestureKeysHint() string {
	var items []string
	for i, name := range action.Names() {
		items = append(items, fmt.Sprintf("%d=%s", i+1, name))
	}
	return strings.Join(items, " ")
}

func (c *RunCommand) Execute(args []string) error {
	// Load config
	cfg, err := hand.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'uhand setup' first.")
		os.Exit(1)
	}

	if cfg.Hand.Port == "" {
		fmt.Fprintln(os.Stderr, "Hand not configured. Run 'uhand setup' first.")
		os.Exit(1)
	}
	if !cfg.Hand.IsCalibrated() {
		fmt.Fprintln(os.Stderr, "Hand not calibrated. Run 'uhand setup' first.")
		os.Exit(1)
	}

	mode := control.Mode(c.Mode)
	if mode != control.ModeManual && cfg.Camera.Bus == "" {
		fmt.Fprintf(os.Stderr, "Mode %q needs a camera. Run 'uhand setup' first.\n", mode)
		os.Exit(1)
	}

	fmt.Printf("Loaded configuration from %s\n", hand.DefaultConfigFile)

	h, err := hand.NewHand(cfg.Hand.Port, cfg.Hand.Calibration)
	if err != nil {
		log.Fatalf("Failed to open hand: %v", err)
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := h.Enable(ctx); err != nil {
		log.Fatalf("Failed to enable servos: %v", err)
	}
	defer h.Disable(context.Background())

	ctrlCfg := control.Config{
		Actuator: h,
		Mode:     mode,
		Hz:       c.Hz,
	}
	if mode != control.ModeManual {
		cam, err := openCamera(cfg.Camera)
		if err != nil {
			log.Fatalf("Failed to open camera: %v", err)
		}
		ctrlCfg.Detector = cam
	}

	ctrl, err := control.NewController(ctrlCfg)
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}

	// Start controller in background
	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	// Run TUI
	p := tea.NewProgram(initialRunModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
