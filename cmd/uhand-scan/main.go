// uhand-scan lists the serial ports and I2C buses where the hand and
// its camera could be, without touching the saved configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/gwillem/uhand/pkg/vision"
)

func main() {
	fmt.Println("🤖 uHand Scanner")
	fmt.Println("━━━━━━━━━━━━━━━━")
	fmt.Println()

	found := scanSerialPorts()
	fmt.Println()
	found = scanI2CBuses() || found

	if !found {
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Run 'uhand setup' to save a configuration.")
}

func scanSerialPorts() bool {
	fmt.Println("Serial ports:")

	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("  error listing ports: %v\n", err)
		return false
	}
	if len(ports) == 0 {
		fmt.Println("  none")
		return false
	}

	found := false
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		servos, err := probePort(port)
		switch {
		case err != nil:
			fmt.Printf("  %-24s (no response)\n", port)
		case len(servos) == 6:
			fmt.Printf("  %-24s uHand (%d servos)\n", port, len(servos))
			found = true
		case len(servos) > 0:
			fmt.Printf("  %-24s %d servo(s), not a full hand\n", port, len(servos))
		default:
			fmt.Printf("  %-24s no servos\n", port)
		}
	}
	return found
}

func probePort(port string) ([]feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	defer bus.Close()

	return bus.Scan(ctx, 1, 6)
}

func scanI2CBuses() bool {
	fmt.Println("I2C buses:")

	if _, err := host.Init(); err != nil {
		fmt.Printf("  no I2C support on this host: %v\n", err)
		return false
	}

	refs := i2creg.All()
	if len(refs) == 0 {
		fmt.Println("  none")
		return false
	}

	found := false
	for _, ref := range refs {
		if probeCamera(ref.Name) {
			fmt.Printf("  %-24s camera at 0x%02x\n", ref.Name, vision.CameraAddr)
			found = true
		} else {
			fmt.Printf("  %-24s no camera\n", ref.Name)
		}
	}
	return found
}

// probeCamera checks whether something at the camera's address answers
// a detection-register read.
func probeCamera(busName string) bool {
	bus := vision.NewI2C(busName)
	if err := bus.Begin(); err != nil {
		return false
	}
	defer bus.Close()

	cam := vision.NewCamera(bus)
	if _, err := cam.FaceDetect(); err != nil {
		return false
	}
	return true
}
