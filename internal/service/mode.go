package service

import "fmt"

// Mode is a named operational profile selecting which services run
type Mode string

const (
	ModeAutonomous Mode = "autonomous"
	ModeManual     Mode = "manual"
	ModeDebug      Mode = "debug"
)

// AllModes lists the supported modes in display order
var AllModes = []Mode{ModeAutonomous, ModeManual, ModeDebug}

// IsValid reports whether the mode is one of the supported modes
func (m Mode) IsValid() bool {
	switch m {
	case ModeAutonomous, ModeManual, ModeDebug:
		return true
	}
	return false
}

// ParseMode validates a mode string
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown mode %q (expected autonomous, manual, or debug)", s)
	}
	return m, nil
}
