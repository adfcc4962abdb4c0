// Package config describes a swerve drive and its modules as read from swervedrive.json and the
// per-module files it lists.
package config

import (
	"fmt"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/swerve/device"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/vendors"
)

// A Device names one piece of hardware by token and address.
type Device struct {
	Type    string `json:"type" yaml:"type"`
	ID      int    `json:"id" yaml:"id"`
	Channel int    `json:"channel,omitempty" yaml:"channel,omitempty"`
	CANBus  string `json:"canbus,omitempty" yaml:"canbus,omitempty"`
}

// Identity returns the device's address.
func (d Device) Identity() resource.Identity {
	return resource.Identity{ID: d.ID, Bus: d.CANBus, Channel: d.Channel}
}

// Validate ensures the device decodes to the expected category.
func (d *Device) Validate(path string, want device.Category) error {
	if d.Type == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "type")
	}
	desc, err := device.Decode(d.Type)
	if err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	if desc.Category != want {
		return goutils.NewConfigValidationError(path, errors.Errorf("%q is a %s, expected a %s", d.Type, desc.Category, want))
	}
	if err := d.Identity().Validate(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	return nil
}

// Inverted flips the direction of a module's motors.
type Inverted struct {
	Drive bool `json:"drive" yaml:"drive"`
	Angle bool `json:"angle" yaml:"angle"`
}

// Location is a module's position relative to the robot center, in inches.
type Location struct {
	Front float64 `json:"front" yaml:"front"`
	Left  float64 `json:"left" yaml:"left"`
}

// ConversionFactors hold the gearing between motors and wheel.
type ConversionFactors struct {
	Drive DriveConversion `json:"drive" yaml:"drive"`
	Angle AngleConversion `json:"angle" yaml:"angle"`
}

// DriveConversion is the drive gearing and wheel diameter in inches.
type DriveConversion struct {
	GearRatio float64 `json:"gearRatio" yaml:"gearRatio"`
	Diameter  float64 `json:"diameter" yaml:"diameter"`
}

// AngleConversion is the steering gearing.
type AngleConversion struct {
	GearRatio float64 `json:"gearRatio" yaml:"gearRatio"`
}

// A Module describes one swerve module.
type Module struct {
	Name    string `json:"-" yaml:"-"`
	Drive   Device `json:"drive" yaml:"drive"`
	Angle   Device `json:"angle" yaml:"angle"`
	Encoder Device `json:"encoder" yaml:"encoder"`

	Inverted                Inverted          `json:"inverted" yaml:"inverted"`
	ConversionFactors       ConversionFactors `json:"conversionFactors" yaml:"conversionFactors"`
	AbsoluteEncoderOffset   float64           `json:"absoluteEncoderOffset" yaml:"absoluteEncoderOffset"`
	AbsoluteEncoderInverted bool              `json:"absoluteEncoderInverted" yaml:"absoluteEncoderInverted"`
	Location                Location          `json:"location" yaml:"location"`
}

// Validate ensures all parts of the module are valid.
func (m *Module) Validate(path string) error {
	if err := m.Drive.Validate(fmt.Sprintf("%s.%s", path, "drive"), device.CategoryMotor); err != nil {
		return err
	}
	if err := m.Angle.Validate(fmt.Sprintf("%s.%s", path, "angle"), device.CategoryMotor); err != nil {
		return err
	}
	if err := m.Encoder.Validate(fmt.Sprintf("%s.%s", path, "encoder"), device.CategoryAbsoluteEncoder); err != nil {
		return err
	}
	if m.ConversionFactors.Drive.GearRatio < 0 || m.ConversionFactors.Angle.GearRatio < 0 {
		return goutils.NewConfigValidationError(path, errors.New("gear ratios cannot be negative"))
	}
	return nil
}

// GyroAxis is the IMU axis the robot heading is read from.
type GyroAxis string

// Gyro axes.
const (
	GyroAxisYaw   GyroAxis = "yaw"
	GyroAxisPitch GyroAxis = "pitch"
	GyroAxisRoll  GyroAxis = "roll"
)

// Vendors tunes vendor availability.
type Vendors struct {
	// Disabled vendors are treated as absent.
	Disabled []string `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	// MinimumVersions maps vendor names to semantic version constraints.
	MinimumVersions map[string]string `json:"minimumVersions,omitempty" yaml:"minimumVersions,omitempty"`
}

// Options returns the availability options the configuration asks for.
func (v Vendors) Options() ([]vendors.Option, error) {
	var opts []vendors.Option
	if len(v.Disabled) > 0 {
		disabled := make([]vendors.Vendor, 0, len(v.Disabled))
		for _, name := range v.Disabled {
			vendor, err := vendors.FromString(name)
			if err != nil {
				return nil, err
			}
			disabled = append(disabled, vendor)
		}
		opts = append(opts, vendors.WithDisabled(disabled...))
	}
	for name, constraint := range v.MinimumVersions {
		vendor, err := vendors.FromString(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vendors.WithMinimumVersion(vendor, constraint))
	}
	return opts, nil
}

// A Drive describes the whole swerve drive.
type Drive struct {
	IMU         Device   `json:"imu" yaml:"imu"`
	GyroAxis    GyroAxis `json:"gyroAxis" yaml:"gyroAxis"`
	InvertedIMU bool     `json:"invertedIMU" yaml:"invertedIMU"`
	// ModuleFiles lists module files relative to the drive file, clockwise from front left.
	ModuleFiles []string `json:"modules" yaml:"modules"`
	Vendors     Vendors  `json:"vendors" yaml:"vendors"`

	Modules []Module `json:"-" yaml:"-"`
}

// Validate ensures all parts of the drive are valid. An empty gyro axis defaults to yaw.
func (d *Drive) Validate(path string) error {
	if err := d.IMU.Validate(fmt.Sprintf("%s.%s", path, "imu"), device.CategoryGyro); err != nil {
		return err
	}
	switch d.GyroAxis {
	case "":
		d.GyroAxis = GyroAxisYaw
	case GyroAxisYaw, GyroAxisPitch, GyroAxisRoll:
	default:
		return goutils.NewConfigValidationError(path, errors.Errorf("unknown gyro axis %q", d.GyroAxis))
	}
	if len(d.ModuleFiles) == 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "modules")
	}
	for _, name := range d.Vendors.Disabled {
		if _, err := vendors.FromString(name); err != nil {
			return goutils.NewConfigValidationError(fmt.Sprintf("%s.%s", path, "vendors"), err)
		}
	}
	for idx := range d.Modules {
		if err := d.Modules[idx].Validate(fmt.Sprintf("%s.%s.%d", path, "modules", idx)); err != nil {
			return err
		}
	}
	return nil
}
