package smartio

import (
	"context"

	"go.viam.com/swerve/spatialmath"
)

// DutyCycleEncoder reads an absolute angle from a pulse-width signal, where the duty cycle is the
// fraction of a full rotation.
type DutyCycleEncoder struct {
	port Port
}

// NewDutyCycleEncoder takes ownership of the port.
func NewDutyCycleEncoder(port Port) *DutyCycleEncoder {
	return &DutyCycleEncoder{port: port}
}

// Channel returns the input channel.
func (e *DutyCycleEncoder) Channel() int {
	return e.port.Channel()
}

// AbsolutePosition measures the duty cycle and converts it to an angle.
func (e *DutyCycleEncoder) AbsolutePosition(ctx context.Context) (spatialmath.Angle, error) {
	duty, err := e.port.DutyCycle(ctx)
	if err != nil {
		return 0, err
	}
	return spatialmath.NewAngleFromRotations(duty), nil
}

// Close releases the port.
func (e *DutyCycleEncoder) Close(ctx context.Context) error {
	return e.port.Close(ctx)
}
