package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/gwillem/uhand/pkg/hand"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("uHand Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━"))
	fmt.Println()

	// Step 1: Find the hand's servo bus
	config := &hand.Config{}
	config.Hand.Port = findHandPort()

	// Step 2: Pick the camera's I2C bus
	fmt.Println()
	config.Camera.Bus = pickCameraBus()

	// Step 3: Calibrate the servos
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Calibrating Servos ━━━"))
	fmt.Println()
	calibrateHand(&config.Hand)

	if err := config.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", hand.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Start the control loop with: " + headerStyle.Render("uhand run"))

	return nil
}

func findHandPort() string {
	fmt.Println("Scanning for the hand's servo bus...")
	fmt.Println()

	ports := findHandPorts()

	if len(ports) == 0 {
		fmt.Println("No hand found.")
		fmt.Println("Make sure the hand is connected and powered on.")
		os.Exit(1)
	}

	if len(ports) == 1 {
		fmt.Printf("%s\n", successStyle.Render("Hand found on "+ports[0]))
		return ports[0]
	}

	// More than one candidate: let the user pick.
	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Several candidate ports found. Which one is the hand?").
				Options(huh.NewOptions(ports...)...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return port
}

// findHandPorts returns the serial ports carrying a 6-servo chain with
// IDs 1-6.
func findHandPorts() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var found []string

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: 1_000_000,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		servos, err := bus.Scan(ctx, 1, 6)
		cancel()
		bus.Close()

		if err != nil {
			continue
		}

		if isHand(servos) {
			fmt.Printf("  Found hand on %s\n", port)
			found = append(found, port)
		}
	}

	return found
}

func isHand(servos []feetech.FoundServo) bool {
	if len(servos) != 6 {
		return false
	}

	ids := make(map[int]bool)
	for _, s := range servos {
		ids[s.ID] = true
	}

	for i := 1; i <= 6; i++ {
		if !ids[i] {
			return false
		}
	}

	return true
}

func pickCameraBus() string {
	fmt.Println("Looking for the camera's I2C bus...")

	if _, err := host.Init(); err != nil {
		fmt.Printf("  No I2C support on this host (%v), skipping camera.\n", err)
		return ""
	}

	refs := i2creg.All()
	if len(refs) == 0 {
		fmt.Println("  No I2C buses found, skipping camera.")
		return ""
	}

	options := []huh.Option[string]{}
	for _, ref := range refs {
		options = append(options, huh.NewOption(ref.Name, ref.Name))
	}
	options = append(options, huh.NewOption("No camera connected", ""))

	var busName string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which I2C bus is the camera on?").
				Description("The ESP32-CAM answers at address 0x52").
				Options(options...).
				Value(&busName),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	return busName
}

func calibrateHand(handConfig *hand.HandConfig) {
	fmt.Printf("Calibrating hand on %s\n", handConfig.Port)
	fmt.Println()

	bus, servos, err := connectToHand(handConfig.Port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to hand: %v\n", err)
		os.Exit(1)
	}
	defer bus.Close()

	servoMap := make(map[int]*feetech.Servo)
	for _, s := range servos {
		servoMap[s.ID] = feetech.NewServo(bus, s.ID, s.Model)
	}

	// Disable all servos so the user can move the joints freely
	ctx := context.Background()
	for _, servo := range servoMap {
		servo.Disable(ctx)
	}

	joints := hand.AllJoints()
	calibration := make(hand.Calibration)

	fmt.Println(subHeaderStyle.Render("Record range of motion"))
	fmt.Println("Move each finger fully open AND fully curled, and rotate")
	fmt.Println("the wrist to both ends.")
	fmt.Println()

	curPositions := make(map[hand.JointName]int)
	minPositions := make(map[hand.JointName]int)
	maxPositions := make(map[hand.JointName]int)
	for i, jointName := range joints {
		servoID := i + 1
		servo := servoMap[servoID]
		pos, _ := servo.Position(ctx)
		curPositions[jointName] = pos
		minPositions[jointName] = pos
		maxPositions[jointName] = pos
	}

	model := newCalibrationModel(joints, servoMap, curPositions, minPositions, maxPositions)
	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running calibration: %v\n", err)
		os.Exit(1)
	}

	cm := finalModel.(calibrationModel)
	for _, name := range joints {
		minPositions[name] = cm.minPositions[name]
		maxPositions[name] = cm.maxPositions[name]
	}

	fmt.Println()

	for i, jointName := range joints {
		servoID := i + 1
		calibration[jointName] = hand.ServoCalibration{
			ID:       servoID,
			RangeMin: minPositions[jointName],
			RangeMax: maxPositions[jointName],
		}
	}

	handConfig.Calibration = calibration
	fmt.Println("Hand calibrated.")
}

func connectToHand(port string) (*feetech.Bus, []feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	servos, err := bus.Scan(ctx, 1, 6)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}

	if !isHand(servos) {
		bus.Close()
		return nil, nil, fmt.Errorf("not a uHand (expected 6 servos with IDs 1-6)")
	}

	return bus, servos, nil
}

// Calibration TUI model
type calibrationModel struct {
	joints       []hand.JointName
	servoMap     map[int]*feetech.Servo
	curPositions map[hand.JointName]int
	minPositions map[hand.JointName]int
	maxPositions map[hand.JointName]int
	quitting     bool
}

type tickMsg time.Time

func newCalibrationModel(
	joints []hand.JointName,
	servoMap map[int]*feetech.Servo,
	curPositions, minPositions, maxPositions map[hand.JointName]int,
) calibrationModel {
	return calibrationModel{
		joints:       joints,
		servoMap:     servoMap,
		curPositions: curPositions,
		minPositions: minPositions,
		maxPositions: maxPositions,
	}
}

func (m calibrationModel) Init() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m calibrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		// Read positions from servos
		ctx := context.Background()
		for i, jointName := range m.joints {
			servoID := i + 1
			servo := m.servoMap[servoID]
			pos, err := servo.Position(ctx)
			if err != nil {
				continue
			}
			m.curPositions[jointName] = pos
			if pos < m.minPositions[jointName] {
				m.minPositions[jointName] = pos
			}
			if pos > m.maxPositions[jointName] {
				m.maxPositions[jointName] = pos
			}
		}
		return m, tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}

	return m, nil
}

func (m calibrationModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableJointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(m.joints))
	ranges := make([]int, 0, len(m.joints))
	for _, jointName := range m.joints {
		rangeSize := m.maxPositions[jointName] - m.minPositions[jointName]
		ranges = append(ranges, rangeSize)
		rows = append(rows, []string{
			string(jointName),
			fmt.Sprintf("%d", m.curPositions[jointName]),
			fmt.Sprintf("%d", m.minPositions[jointName]),
			fmt.Sprintf("%d", m.maxPositions[jointName]),
			fmt.Sprintf("%d", rangeSize),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Joint", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 0:
				return tableJointStyle
			case 1:
				return tableCurrentStyle
			case 4:
				if row >= 0 && row < len(ranges) && ranges[row] > 500 {
					return tableRangeGoodStyle
				}
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press Enter when done"))

	return sb.String()
}
