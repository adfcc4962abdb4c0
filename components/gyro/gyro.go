// Package gyro defines the orientation sensors a swerve drive reads its heading from.
package gyro

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/spatialmath"
)

// SubtypeName identifies the gyroscope category in device tokens and logs.
const SubtypeName = "gyro"

// ErrClosed is returned by a Gyro used after Close.
var ErrClosed = errors.New("gyro is closed")

// An IMU is the native object a vendor integration produces for a gyroscope.
type IMU interface {
	// Orientation reads the sensor's current 3D orientation.
	Orientation(ctx context.Context) (spatialmath.Rotation3d, error)

	Close(ctx context.Context) error
}

var _ = resource.Resource(&Gyro{})

// Gyro is the uniform handle around a native IMU. Every call to Rotation reads the sensor again.
type Gyro struct {
	name resource.Name

	mu       sync.Mutex
	native   IMU
	inverted bool
	closed   bool
}

// New wraps a native IMU.
func New(name resource.Name, native IMU) *Gyro {
	return &Gyro{name: name, native: native}
}

// Name returns the gyro's resource name.
func (g *Gyro) Name() resource.Name {
	return g.name
}

// Native returns the vendor object. Callers must not close it themselves.
func (g *Gyro) Native() IMU {
	return g.native
}

// SetInverted reports the inverse rotation, for sensors mounted upside down.
func (g *Gyro) SetInverted(inverted bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inverted = inverted
}

// Rotation reads the sensor's orientation.
func (g *Gyro) Rotation(ctx context.Context) (spatialmath.Rotation3d, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return spatialmath.Rotation3d{}, ErrClosed
	}
	r, err := g.native.Orientation(ctx)
	if err != nil {
		return spatialmath.Rotation3d{}, errors.Wrapf(err, "reading %s", g.name)
	}
	if g.inverted {
		return r.Inverse(), nil
	}
	return r, nil
}

// Yaw reads the sensor and returns its heading.
func (g *Gyro) Yaw(ctx context.Context) (spatialmath.Angle, error) {
	r, err := g.Rotation(ctx)
	if err != nil {
		return 0, err
	}
	return r.Yaw(), nil
}

// Close releases the native IMU. Closing again is a no-op.
func (g *Gyro) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	return g.native.Close(ctx)
}
