// Package swerve brings up a swerve drive from its configuration: one gyro and, per module, a
// drive motor, an angle motor and an absolute encoder.
package swerve

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/config"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/vendors"
)

// A Module is one live swerve module.
type Module struct {
	Name    string
	Drive   *motor.Controller
	Angle   *motor.Controller
	Encoder *encoder.AbsoluteEncoder
	Config  config.Module
}

// DriveOutput returns the drive motor's characteristics at the wheel.
func (m *Module) DriveOutput() motor.PhysicalSpec {
	return reduce(m.Drive.Spec(), m.Config.ConversionFactors.Drive.GearRatio)
}

// AngleOutput returns the angle motor's characteristics at the steering axis.
func (m *Module) AngleOutput() motor.PhysicalSpec {
	return reduce(m.Angle.Spec(), m.Config.ConversionFactors.Angle.GearRatio)
}

func reduce(spec motor.PhysicalSpec, ratio float64) motor.PhysicalSpec {
	if ratio == 0 {
		return spec
	}
	return spec.WithReduction(ratio)
}

// Heading reads the module's absolute steering angle.
func (m *Module) Heading(ctx context.Context) (spatialmath.Angle, error) {
	return m.Encoder.Angle(ctx)
}

// Stop stops both motors.
func (m *Module) Stop(ctx context.Context) error {
	return multierr.Combine(m.Drive.Stop(ctx), m.Angle.Stop(ctx))
}

// Close releases the module's devices, the encoder first since it may read through the angle
// motor.
func (m *Module) Close(ctx context.Context) error {
	var err error
	if m.Encoder != nil {
		err = multierr.Combine(err, m.Encoder.Close(ctx))
	}
	if m.Angle != nil {
		err = multierr.Combine(err, m.Angle.Close(ctx))
	}
	if m.Drive != nil {
		err = multierr.Combine(err, m.Drive.Close(ctx))
	}
	return err
}

// A Drive is a live swerve drive.
type Drive struct {
	Gyro     *gyro.Gyro
	GyroAxis config.GyroAxis
	Modules  []*Module
	logger   logging.Logger
}

// Heading reads the robot heading from the configured gyro axis.
func (d *Drive) Heading(ctx context.Context) (spatialmath.Angle, error) {
	r, err := d.Gyro.Rotation(ctx)
	if err != nil {
		return 0, err
	}
	switch d.GyroAxis {
	case config.GyroAxisPitch:
		return r.Pitch(), nil
	case config.GyroAxisRoll:
		return r.Roll(), nil
	default:
		return r.Yaw(), nil
	}
}

// Module returns the module with the given name.
func (d *Drive) Module(name string) (*Module, bool) {
	for _, m := range d.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Close releases every device.
func (d *Drive) Close(ctx context.Context) error {
	var err error
	for _, m := range d.Modules {
		err = multierr.Combine(err, m.Close(ctx))
	}
	if d.Gyro != nil {
		err = multierr.Combine(err, d.Gyro.Close(ctx))
	}
	return err
}

// NewFromConfig builds the availability the configuration asks for over the linked vendors and
// brings the drive up on deps.
func NewFromConfig(ctx context.Context, cfg *config.Drive, deps device.Dependencies, logger logging.Logger) (*Drive, error) {
	logger = logging.OrGlobal(logger)
	opts, err := cfg.Vendors.Options()
	if err != nil {
		return nil, err
	}
	avail, err := vendors.NewAvailability(nil, logger.Sublogger("vendors"), opts...)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, device.NewPipeline(avail, deps, logger.Sublogger("device")), logger)
}

// New brings up every device the configuration names. A module that fails is closed and
// reported; failures of every module and of the gyro are combined into one error, in which case
// nothing stays open.
func New(ctx context.Context, cfg *config.Drive, p *device.Pipeline, logger logging.Logger) (*Drive, error) {
	d := &Drive{GyroAxis: cfg.GyroAxis, logger: logging.OrGlobal(logger)}
	if d.GyroAxis == "" {
		d.GyroAxis = config.GyroAxisYaw
	}

	var errs error
	g, err := p.Gyro(ctx, cfg.IMU.Type, cfg.IMU.Identity())
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "imu"))
	} else {
		g.SetInverted(cfg.InvertedIMU)
		d.Gyro = g
	}

	for idx, mc := range cfg.Modules {
		name := mc.Name
		if name == "" {
			name = fmt.Sprintf("module%d", idx)
		}
		m, err := newModule(ctx, name, mc, p)
		if err != nil {
			d.logger.Errorw("module failed to come up", "module", name, "kind", string(device.KindOf(err)), "error", err)
			errs = multierr.Append(errs, errors.Wrapf(err, "module %s", name))
			continue
		}
		d.Modules = append(d.Modules, m)
	}

	if errs != nil {
		return nil, multierr.Combine(errs, d.Close(ctx))
	}
	d.logger.Infow("swerve drive up", "modules", len(d.Modules), "gyro", d.Gyro.Name().String())
	return d, nil
}

func newModule(ctx context.Context, name string, mc config.Module, p *device.Pipeline) (m *Module, err error) {
	m = &Module{Name: name, Config: mc}
	defer func() {
		if err != nil {
			err = multierr.Combine(err, m.Close(ctx))
			m = nil
		}
	}()

	if m.Drive, err = p.Motor(ctx, mc.Drive.Type, mc.Drive.Identity()); err != nil {
		return m, errors.Wrap(err, "drive")
	}
	m.Drive.SetInverted(mc.Inverted.Drive)

	if m.Angle, err = p.Motor(ctx, mc.Angle.Type, mc.Angle.Identity()); err != nil {
		return m, errors.Wrap(err, "angle")
	}
	m.Angle.SetInverted(mc.Inverted.Angle)

	// An encoder wired into the angle motor's data port reads through that motor.
	opts := device.EncoderOptions{AttachedType: m.Angle.Name().Vendor, Host: m.Angle}
	if m.Encoder, err = p.AbsoluteEncoder(ctx, mc.Encoder.Type, mc.Encoder.Identity(), opts); err != nil {
		return m, errors.Wrap(err, "encoder")
	}
	m.Encoder.SetOffset(spatialmath.NewAngleFromDegrees(mc.AbsoluteEncoderOffset))
	m.Encoder.SetInverted(mc.AbsoluteEncoderInverted)
	return m, nil
}

// Names lists every device name of the drive, gyro first.
func (d *Drive) Names() []resource.Name {
	var names []resource.Name
	if d.Gyro != nil {
		names = append(names, d.Gyro.Name())
	}
	for _, m := range d.Modules {
		names = append(names, m.Drive.Name(), m.Angle.Name(), m.Encoder.Name())
	}
	return names
}
