package status

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSysFile creates a fake kernel node under root
func writeSysFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadVitals(t *testing.T) {
	root := t.TempDir()
	writeSysFile(t, root, "sys/class/thermal/thermal_zone0/temp", "48200\n")
	writeSysFile(t, root, "proc/loadavg", "0.42 0.31 0.25 1/123 4567\n")
	writeSysFile(t, root, "sys/class/power_supply/rpi/voltage_now", "5100000\n")

	v := readVitals(root)
	assert.InDelta(t, 48.2, v.CPUTempC, 0.001)
	assert.InDelta(t, 0.42, v.Load1, 0.001)
	assert.InDelta(t, 5.1, v.VoltageV, 0.001)
}

func TestReadVitals_MissingNodes(t *testing.T) {
	v := readVitals(t.TempDir())
	assert.Zero(t, v.CPUTempC)
	assert.Zero(t, v.Load1)
	assert.Zero(t, v.VoltageV)
}

func TestReadVitals_GarbageContent(t *testing.T) {
	root := t.TempDir()
	writeSysFile(t, root, "sys/class/thermal/thermal_zone0/temp", "not a number\n")
	writeSysFile(t, root, "proc/loadavg", "\n")

	v := readVitals(root)
	assert.Zero(t, v.CPUTempC)
	assert.Zero(t, v.Load1)
}
