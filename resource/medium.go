package resource

import (
	"strings"

	"github.com/pkg/errors"
)

// Medium is the physical connection path used to reach a device.
type Medium int

// Known media.
const (
	Unknown Medium = iota
	CAN
	PWM
	// Attached means the device is wired into another motor controller's data port.
	Attached
)

func (m Medium) String() string {
	switch m {
	case CAN:
		return "can"
	case PWM:
		return "pwm"
	case Attached:
		return "attached"
	default:
		return "unknown"
	}
}

// MediumFromString parses a connection qualifier.
func MediumFromString(s string) (Medium, error) {
	switch strings.ToLower(s) {
	case "can":
		return CAN, nil
	case "pwm":
		return PWM, nil
	case "attached":
		return Attached, nil
	}
	return Unknown, errors.Errorf("unknown medium %q", s)
}
