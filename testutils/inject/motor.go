package inject

import (
	"context"

	"go.viam.com/swerve/components/motor"
)

// Motor is an injected native motor.
type Motor struct {
	motor.Motor
	SetPowerFunc   func(ctx context.Context, powerPct float64) error
	SetVoltageFunc func(ctx context.Context, volts float64) error
	PositionFunc   func(ctx context.Context) (float64, error)
	VelocityFunc   func(ctx context.Context) (float64, error)
	CloseFunc      func(ctx context.Context) error
}

// SetPower calls the injected SetPower or the real version.
func (m *Motor) SetPower(ctx context.Context, powerPct float64) error {
	if m.SetPowerFunc == nil {
		return m.Motor.SetPower(ctx, powerPct)
	}
	return m.SetPowerFunc(ctx, powerPct)
}

// SetVoltage calls the injected SetVoltage or the real version.
func (m *Motor) SetVoltage(ctx context.Context, volts float64) error {
	if m.SetVoltageFunc == nil {
		return m.Motor.SetVoltage(ctx, volts)
	}
	return m.SetVoltageFunc(ctx, volts)
}

// Position calls the injected Position or the real version.
func (m *Motor) Position(ctx context.Context) (float64, error) {
	if m.PositionFunc == nil {
		return m.Motor.Position(ctx)
	}
	return m.PositionFunc(ctx)
}

// Velocity calls the injected Velocity or the real version.
func (m *Motor) Velocity(ctx context.Context) (float64, error) {
	if m.VelocityFunc == nil {
		return m.Motor.Velocity(ctx)
	}
	return m.VelocityFunc(ctx)
}

// Close calls the injected Close or the real version.
func (m *Motor) Close(ctx context.Context) error {
	if m.CloseFunc == nil {
		if m.Motor == nil {
			return nil
		}
		return m.Motor.Close(ctx)
	}
	return m.CloseFunc(ctx)
}
