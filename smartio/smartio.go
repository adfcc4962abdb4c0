// Package smartio reads duty-cycle encoder signals from the robot controller's digital inputs.
// Nothing here depends on a vendor library.
package smartio

import (
	"context"

	"github.com/pkg/errors"
)

// NumChannels is the number of digital input channels on the controller.
const NumChannels = 10

// ErrPortClosed is returned by a Port used after Close.
var ErrPortClosed = errors.New("smartio port is closed")

// A Port is an open digital input measuring a pulse-width signal.
type Port interface {
	Channel() int
	// DutyCycle returns the fraction of each period the signal is high, in [0, 1].
	DutyCycle(ctx context.Context) (float64, error)
	Close(ctx context.Context) error
}

// A Provider opens ports by channel number.
type Provider interface {
	Open(ctx context.Context, channel int) (Port, error)
}

// ValidateChannel ensures the channel exists on the controller.
func ValidateChannel(channel int) error {
	if channel < 0 || channel >= NumChannels {
		return errors.Errorf("channel %d out of range [0, %d)", channel, NumChannels)
	}
	return nil
}
