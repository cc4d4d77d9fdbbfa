package status

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// readVitals gathers board diagnostics from the kernel under root
// (root is "/" outside of tests). Missing nodes are skipped silently;
// not every board exposes every sensor.
func readVitals(root string) Vitals {
	v := Vitals{}

	// CPU temperature, millidegrees Celsius
	if data, err := os.ReadFile(filepath.Join(root, "sys/class/thermal/thermal_zone0/temp")); err == nil {
		if milli, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64); err == nil {
			v.CPUTempC = milli / 1000.0
		}
	}

	// 1-minute load average
	if data, err := os.ReadFile(filepath.Join(root, "proc/loadavg")); err == nil {
		fields := strings.Fields(string(data))
		if len(fields) > 0 {
			if load, err := strconv.ParseFloat(fields[0], 64); err == nil {
				v.Load1 = load
			}
		}
	}

	// Supply voltage, microvolts, from the first power supply that has one
	supplies, _ := filepath.Glob(filepath.Join(root, "sys/class/power_supply/*/voltage_now"))
	for _, path := range supplies {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if micro, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64); err == nil {
			v.VoltageV = micro / 1e6
			break
		}
	}

	return v
}
