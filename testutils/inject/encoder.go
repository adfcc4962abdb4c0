package inject

import (
	"context"

	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/spatialmath"
)

// Encoder is an injected native absolute encoder.
type Encoder struct {
	encoder.Encoder
	AbsolutePositionFunc func(ctx context.Context) (spatialmath.Angle, error)
	CloseFunc            func(ctx context.Context) error
}

// AbsolutePosition calls the injected AbsolutePosition or the real version.
func (e *Encoder) AbsolutePosition(ctx context.Context) (spatialmath.Angle, error) {
	if e.AbsolutePositionFunc == nil {
		return e.Encoder.AbsolutePosition(ctx)
	}
	return e.AbsolutePositionFunc(ctx)
}

// Close calls the injected Close or the real version.
func (e *Encoder) Close(ctx context.Context) error {
	if e.CloseFunc == nil {
		if e.Encoder == nil {
			return nil
		}
		return e.Encoder.Close(ctx)
	}
	return e.CloseFunc(ctx)
}
