// Package thriftybot integrates The Thrifty Bot's Nova motor controller and CAN absolute
// encoder. Both only answer on the primary CAN bus.
package thriftybot

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"

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
	Vendor:  vendors.ThriftyBot,
	Name:    "thriftylib",
	Marker:  "com.thethriftybot.devices.ThriftyNova",
	Version: "2025.1.1",
}

// Signal names on Nova controllers and Thrifty encoders.
const (
	SignalPercentOutput    = "percent_output"
	SignalVoltage          = "voltage"
	SignalPosition         = "position"
	SignalVelocity         = "velocity"
	SignalExternalEncoder  = "external_encoder"
	SignalExternalPosition = "external_position"
	SignalEncoderCounts    = "encoder_counts"
)

// CountsPerRotation is the resolution of the Thrifty CAN encoder.
const CountsPerRotation = 16383.0

// ExternalEncoder is the Nova setting selecting what its data port reads.
type ExternalEncoder float64

// External encoder modes.
const (
	ExternalREV ExternalEncoder = iota + 1
	ExternalRedux
	ExternalSRXMag
)

var externalEncoders = map[string]ExternalEncoder{
	"revthroughbore": ExternalREV,
	"canandmag":      ExternalRedux,
	"srxmag":         ExternalSRXMag,
}

// novaMotors are the motors the Nova can commutate.
var novaMotors = []string{"neo", "neo2", "neo550", "vortex", "minion"}

var motorSignals = native.MotorSignals{
	Duty:          SignalPercentOutput,
	Voltage:       SignalVoltage,
	Position:      SignalPosition,
	Velocity:      SignalVelocity,
	VelocityToRPM: 1,
}

// Nova is a Thrifty Nova motor controller.
type Nova struct {
	*native.Motor
}

func newNova(
	ctx context.Context,
	deps device.Dependencies,
	b device.Binding,
	spec motor.PhysicalSpec,
	logger logging.Logger,
) (motor.Motor, error) {
	if !lo.Contains(novaMotors, spec.Model) {
		return nil, &device.Error{
			Kind:   device.IncompatibleMotor,
			Token:  b.Descriptor.Token,
			Vendor: b.Vendor,
			Medium: b.Medium,
			Msg:    "nova cannot drive a " + spec.Model,
		}
	}
	session, err := device.OpenPrimaryCAN(ctx, deps, b, can.DeviceMotorController, can.ManufacturerThriftyBot, logger)
	if err != nil {
		return nil, err
	}
	return &Nova{Motor: native.NewMotor(session, motorSignals)}, nil
}

func newEncoder(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	session, err := device.OpenPrimaryCAN(ctx, deps, b, can.DeviceMiscellaneous, can.ManufacturerThriftyBot, logger)
	if err != nil {
		return nil, err
	}
	return native.NewEncoder(session, SignalEncoderCounts, func(counts float64) spatialmath.Angle {
		return spatialmath.NewAngleFromRotations(counts / CountsPerRotation)
	}), nil
}

// newAttachedEncoder switches the host Nova's data port to the encoder's mode and reads it.
func newAttachedEncoder(ctx context.Context, deps device.Dependencies, b device.Binding, logger logging.Logger) (encoder.Encoder, error) {
	nova, err := utils.AssertType[*Nova](b.Host.Native())
	if err != nil {
		return nil, errors.Wrapf(err, "host controller %s", b.Host.Name())
	}
	mode, ok := externalEncoders[b.Descriptor.Subtype]
	if !ok {
		return nil, errors.Errorf("nova has no external encoder mode for %s", b.Descriptor.Subtype)
	}
	session := nova.Session()
	if err := session.Write(ctx, SignalExternalEncoder, float64(mode)); err != nil {
		return nil, errors.Wrap(err, "selecting external encoder")
	}
	return native.NewHostPort(session, SignalExternalPosition, spatialmath.NewAngleFromRotations), nil
}
