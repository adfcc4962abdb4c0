// Package ctre integrates CTR Electronics Phoenix 6 devices: Talon FX and Talon FXS motor
// controllers, the CANcoder absolute encoder and the Pigeon 2 IMU. Phoenix 6 devices may live on
// any CAN bus, including CANivores.
package ctre

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/utils"
	"go.viam.com/swerve/vendors"
	"go.viam.com/swerve/vendors/internal/native"
)

// Library describes the vendor library this package stands in for.
var Library = vendors.Library{
	Vendor:  vendors.CTRE,
	Name:    "phoenix6",
	Marker:  "com.ctre.phoenix6.StatusCode",
	Version: "25.1.0",
}

// Signal names on Phoenix 6 devices.
const (
	SignalDutyCycle        = "duty_cycle"
	SignalVoltage          = "motor_voltage"
	SignalRotorPosition    = "rotor_position"
	SignalRotorVelocity    = "rotor_velocity"
	SignalMotorArrangement = "motor_arrangement"
	SignalExternalPosition = "external_absolute_position"
	SignalAbsolutePosition = "absolute_position"
)

var motorSignals = native.MotorSignals{
	Duty:     SignalDutyCycle,
	Voltage:  SignalVoltage,
	Position: SignalRotorPosition,
	Velocity: SignalRotorVelocity,
	// Phoenix 6 publishes velocity in rotations per second.
	VelocityToRPM: 60,
}

// fxsArrangements maps motor models to the Talon FXS motor arrangement setting.
var fxsArrangements = map[string]float64{
	"minion": 1,
	"neo":    2,
	"neo2":   2,
	"neo550": 3,
	"vortex": 4,
}

// TalonFX is a Talon FX or Talon FXS motor controller.
type TalonFX struct {
	*native.Motor
	subtype string
}

// Subtype returns "talonfx" or "talonfxs".
func (t *TalonFX) Subtype() string {
	return t.subtype
}

func newTalonFX(
	ctx context.Context,
	deps device.Dependencies,
	b device.Binding,
	spec motor.PhysicalSpec,
	logger logging.Logger,
) (motor.Motor, error) {
	var arrangement float64
	if b.Descriptor.Subtype == "talonfxs" {
		var ok bool
		if arrangement, ok = fxsArrangements[spec.Model]; !ok {
			return nil, &device.Error{
				Kind:   device.IncompatibleMotor,
				Token:  b.Descriptor.Token,
				Vendor: b.Vendor,
				Medium: b.Medium,
				Msg:    "talon fxs cannot commutate a " + spec.Model,
			}
		}
	}
	session, err := device.OpenCAN(ctx, deps, b, can.DeviceMotorController, can.ManufacturerCTRE)
	if err != nil {
		return nil, err
	}
	if arrangement != 0 {
		if err := session.Write(ctx, SignalMotorArrangement, arrangement); err != nil {
			return nil, multierr.Combine(errors.Wrap(err, "configuring motor arrangement"), session.Close(ctx))
		}
	}
	return &TalonFX{Motor: native.NewMotor(session, motorSignals), subtype: b.Descriptor.Subtype}, nil
}

func newCANcoder(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	session, err := device.OpenCAN(ctx, deps, b, can.DeviceMiscellaneous, can.ManufacturerCTRE)
	if err != nil {
		return nil, err
	}
	return native.NewEncoder(session, SignalAbsolutePosition, spatialmath.NewAngleFromRotations), nil
}

// newAttachedEncoder reads an encoder wired into a Talon's data port.
func newAttachedEncoder(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	talon, err := utils.AssertType[*TalonFX](b.Host.Native())
	if err != nil {
		return nil, errors.Wrapf(err, "host controller %s", b.Host.Name())
	}
	return native.NewHostPort(talon.Session(), SignalExternalPosition, spatialmath.NewAngleFromRotations), nil
}

func newPigeon2(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (gyro.IMU, error) {
	session, err := device.OpenCAN(ctx, deps, b, can.DeviceGyro, can.ManufacturerCTRE)
	if err != nil {
		return nil, err
	}
	return native.NewIMU(session), nil
}
