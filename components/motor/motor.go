// Package motor defines machines that convert electricity into rotary motion, and the catalog of
// motors a swerve module can be built from.
package motor

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
)

// SubtypeName identifies the motor category in device tokens and logs.
const SubtypeName = "motor"

// A Motor is the native object a vendor integration produces for a motor controller.
type Motor interface {
	// SetPower sets the duty cycle between -1 and 1.
	SetPower(ctx context.Context, powerPct float64) error

	// SetVoltage commands the given output voltage.
	SetVoltage(ctx context.Context, volts float64) error

	// Position reports the rotor position in revolutions.
	Position(ctx context.Context) (float64, error)

	// Velocity reports the rotor speed in revolutions per minute.
	Velocity(ctx context.Context) (float64, error)

	Close(ctx context.Context) error
}

// Telemetry is a single snapshot of a controller's state.
type Telemetry struct {
	Position float64
	Velocity float64
	Power    float64
}

var _ = resource.Resource(&Controller{})

// Controller is the uniform handle around a native motor. It exclusively owns the native object.
type Controller struct {
	name   resource.Name
	spec   PhysicalSpec
	logger logging.Logger

	mu        sync.Mutex
	native    Motor
	inverted  bool
	lastPower float64
	closed    bool
}

// NewController wraps a native motor.
func NewController(name resource.Name, native Motor, spec PhysicalSpec, logger logging.Logger) *Controller {
	return &Controller{name: name, native: native, spec: spec, logger: logging.OrGlobal(logger)}
}

// Name returns the controller's resource name.
func (c *Controller) Name() resource.Name {
	return c.name
}

// Spec returns the characterization of the motor being driven.
func (c *Controller) Spec() PhysicalSpec {
	return c.spec
}

// Native returns the vendor object. Callers must not close it themselves.
func (c *Controller) Native() Motor {
	return c.native
}

// SetInverted flips the sign of every command and reading.
func (c *Controller) SetInverted(inverted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inverted = inverted
}

// Inverted returns whether the controller is inverted.
func (c *Controller) Inverted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverted
}

func (c *Controller) direction() float64 {
	if c.inverted {
		return -1
	}
	return 1
}

// SetPower sets the percentage of power the motor should employ between -1 and 1.
func (c *Controller) SetPower(ctx context.Context, powerPct float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	powerPct = ClampPower(powerPct)
	if err := c.native.SetPower(ctx, c.direction()*powerPct); err != nil {
		return err
	}
	c.lastPower = powerPct
	return nil
}

// SetVoltage commands an output voltage within the motor's nominal rating.
func (c *Controller) SetVoltage(ctx context.Context, volts float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if math.Abs(volts) > c.spec.NominalVoltage {
		return NewInvalidVoltageError(volts, c.spec.NominalVoltage)
	}
	if err := c.native.SetVoltage(ctx, c.direction()*volts); err != nil {
		return err
	}
	c.lastPower = volts / c.spec.NominalVoltage
	return nil
}

// SetRPM drives the motor open loop at roughly the given speed using the motor's velocity
// constant.
func (c *Controller) SetRPM(ctx context.Context, rpm float64) error {
	warning, err := CheckSpeed(rpm, c.spec.FreeSpeedRPM())
	if warning != "" {
		c.logger.Warnw(warning, "motor", c.name.String())
	}
	if err != nil {
		return c.Stop(ctx)
	}
	volts := c.spec.VoltageForSpeed(rpm)
	volts = math.Max(-c.spec.NominalVoltage, math.Min(volts, c.spec.NominalVoltage))
	return c.SetVoltage(ctx, volts)
}

// Stop cuts power to the motor.
func (c *Controller) Stop(ctx context.Context) error {
	return c.SetPower(ctx, 0)
}

// IsPowered returns whether or not the motor is currently on, and the last commanded power.
func (c *Controller) IsPowered(ctx context.Context) (bool, float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, 0, ErrClosed
	}
	return math.Abs(c.lastPower) > 0.005, c.lastPower, nil
}

// Position reports the rotor position in revolutions.
func (c *Controller) Position(ctx context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	pos, err := c.native.Position(ctx)
	if err != nil {
		return 0, err
	}
	return c.direction() * pos, nil
}

// Velocity reports the rotor speed in revolutions per minute.
func (c *Controller) Velocity(ctx context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	vel, err := c.native.Velocity(ctx)
	if err != nil {
		return 0, err
	}
	return c.direction() * vel, nil
}

// Telemetry reads position and velocity in one call.
func (c *Controller) Telemetry(ctx context.Context) (Telemetry, error) {
	pos, err := c.Position(ctx)
	if err != nil {
		return Telemetry{}, err
	}
	vel, err := c.Velocity(ctx)
	if err != nil {
		return Telemetry{}, err
	}
	_, power, err := c.IsPowered(ctx)
	if err != nil {
		return Telemetry{}, err
	}
	return Telemetry{Position: pos, Velocity: vel, Power: power}, nil
}

// Close releases the native motor. Later calls return ErrClosed, and closing again is a no-op.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.native.Close(ctx)
}

// CheckSpeed checks if the input rpm is too slow or fast and returns a warning and/or error.
func CheckSpeed(rpm, max float64) (string, error) {
	switch speed := math.Abs(rpm); {
	case speed < 0.1:
		return "motor speed is nearly 0 rev_per_min", NewZeroRPMError()
	case max > 0 && speed > max-0.1:
		return fmt.Sprintf("motor speed is nearly the max rev_per_min (%f)", max), nil
	default:
		return "", nil
	}
}

// GetSign returns the sign of the float as a helper for getting
// the intended direction of travel of a motor.
func GetSign(x float64) float64 {
	if x == 0 {
		return 0
	}
	if math.Signbit(x) {
		return -1.0
	}
	return 1.0
}

// ClampPower clamps a percentage power to 1.0 or -1.0.
func ClampPower(pwr float64) float64 {
	pwr = math.Min(pwr, 1.0)
	pwr = math.Max(pwr, -1.0)
	return pwr
}
