// Package rev integrates REV Robotics Spark MAX and Spark Flex motor controllers. Sparks only
// answer on the primary CAN bus.
package rev

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/encoder"
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
	Vendor:  vendors.REV,
	Name:    "revlib",
	Marker:  "com.revrobotics.spark.SparkMax",
	Version: "2025.0.3",
}

// Signal names on Spark controllers.
const (
	SignalAppliedOutput    = "applied_output"
	SignalVoltage          = "voltage_setpoint"
	SignalPosition         = "position"
	SignalVelocity         = "velocity"
	SignalAbsolutePosition = "absolute_position"
)

var motorSignals = native.MotorSignals{
	Duty:     SignalAppliedOutput,
	Voltage:  SignalVoltage,
	Position: SignalPosition,
	Velocity: SignalVelocity,
	// Sparks already report rpm.
	VelocityToRPM: 1,
}

// Spark is a Spark MAX or Spark Flex.
type Spark struct {
	*native.Motor
	subtype string
}

// Subtype returns "sparkmax" or "sparkflex".
func (s *Spark) Subtype() string {
	return s.subtype
}

func newSpark(
	ctx context.Context,
	deps device.Dependencies,
	b device.Binding,
	spec motor.PhysicalSpec,
	logger logging.Logger,
) (motor.Motor, error) {
	session, err := device.OpenPrimaryCAN(ctx, deps, b, can.DeviceMotorController, can.ManufacturerREV, logger)
	if err != nil {
		return nil, err
	}
	logger.Debugw("opened spark", "subtype", b.Descriptor.Subtype, "model", spec.Model, "id", b.Identity().ID)
	return &Spark{Motor: native.NewMotor(session, motorSignals), subtype: b.Descriptor.Subtype}, nil
}

// newAttachedEncoder reads the absolute encoder plugged into a Spark's data port.
func newAttachedEncoder(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	spark, err := utils.AssertType[*Spark](b.Host.Native())
	if err != nil {
		return nil, errors.Wrapf(err, "host controller %s", b.Host.Name())
	}
	return native.NewHostPort(spark.Session(), SignalAbsolutePosition, spatialmath.NewAngleFromRotations), nil
}
