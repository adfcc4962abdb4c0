package device

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/swerve/components/encoder"
	"go.viam.com/swerve/components/gyro"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
)

// A Handle is any facade the factory builds.
type Handle = resource.Resource

// Factory builds facades from bindings. Every call opens a fresh native device; nothing is cached
// or deduplicated.
type Factory struct {
	deps   Dependencies
	logger logging.Logger
}

// NewFactory returns a factory opening devices on the given transports. A nil logger means the
// global logger.
func NewFactory(deps Dependencies, logger logging.Logger) *Factory {
	return &Factory{deps: deps, logger: logging.OrGlobal(logger)}
}

// Build constructs the facade for any category. spec is required for motors and ignored
// otherwise.
func (f *Factory) Build(ctx context.Context, b Binding, spec *motor.PhysicalSpec) (Handle, error) {
	var (
		h   Handle
		err error
	)
	// Typed nils must not leak into the Handle interface.
	switch b.Descriptor.Category {
	case CategoryMotor:
		var c *motor.Controller
		if c, err = f.BuildMotor(ctx, b, spec); err == nil {
			h = c
		}
	case CategoryAbsoluteEncoder:
		var e *encoder.AbsoluteEncoder
		if e, err = f.BuildAbsoluteEncoder(ctx, b); err == nil {
			h = e
		}
	case CategoryGyro:
		var g *gyro.Gyro
		if g, err = f.BuildGyro(ctx, b); err == nil {
			h = g
		}
	default:
		err = malformed(b.Descriptor.Token, "unknown category %s", b.Descriptor.Category)
	}
	return h, err
}

// BuildMotor constructs a motor controller facade.
func (f *Factory) BuildMotor(ctx context.Context, b Binding, spec *motor.PhysicalSpec) (*motor.Controller, error) {
	if err := checkBinding(b, CategoryMotor); err != nil {
		return nil, err
	}
	if spec == nil {
		return nil, newError(UnknownMotorModel, b.Descriptor, b.Vendor, b.Medium, "no physical spec for %q", b.Descriptor.Qualifier)
	}
	reg, ok := motorRegistry.lookup(b.Vendor, b.Medium, b.Descriptor.Subtype)
	if !ok {
		return nil, newError(VendorUnavailable, b.Descriptor, b.Vendor, b.Medium, "no motor constructor registered")
	}
	logger := f.logger.Sublogger(b.Vendor.String())
	native, err := reg.Constructor(ctx, f.deps, b, *spec, logger)
	if err != nil {
		return nil, constructionError(b, err)
	}
	if err := f.checkInterrupted(ctx, b, native); err != nil {
		return nil, err
	}
	f.logger.Debugw("built motor", "name", b.Name().String(), "model", spec.Model)
	return motor.NewController(b.Name(), native, *spec, logger), nil
}

// BuildAbsoluteEncoder constructs an absolute encoder facade.
func (f *Factory) BuildAbsoluteEncoder(ctx context.Context, b Binding) (*encoder.AbsoluteEncoder, error) {
	if err := checkBinding(b, CategoryAbsoluteEncoder); err != nil {
		return nil, err
	}
	reg, ok := encoderRegistry.lookup(b.Vendor, b.Medium, b.Descriptor.Subtype)
	if !ok {
		return nil, newError(VendorUnavailable, b.Descriptor, b.Vendor, b.Medium, "no absolute encoder constructor registered")
	}
	native, err := reg.Constructor(ctx, f.deps, b, f.logger.Sublogger(b.Vendor.String()))
	if err != nil {
		return nil, constructionError(b, err)
	}
	if err := f.checkInterrupted(ctx, b, native); err != nil {
		return nil, err
	}
	f.logger.Debugw("built absolute encoder", "name", b.Name().String())
	return encoder.NewAbsoluteEncoder(b.Name(), native), nil
}

// BuildGyro constructs a gyroscope facade.
func (f *Factory) BuildGyro(ctx context.Context, b Binding) (*gyro.Gyro, error) {
	if err := checkBinding(b, CategoryGyro); err != nil {
		return nil, err
	}
	reg, ok := gyroRegistry.lookup(b.Vendor, b.Medium, b.Descriptor.Subtype)
	if !ok {
		return nil, newError(VendorUnavailable, b.Descriptor, b.Vendor, b.Medium, "no gyro constructor registered")
	}
	native, err := reg.Constructor(ctx, f.deps, b, f.logger.Sublogger(b.Vendor.String()))
	if err != nil {
		return nil, constructionError(b, err)
	}
	if err := f.checkInterrupted(ctx, b, native); err != nil {
		return nil, err
	}
	f.logger.Debugw("built gyro", "name", b.Name().String())
	return gyro.New(b.Name(), native), nil
}

// checkBinding rejects bindings that could not have come out of Resolve.
func checkBinding(b Binding, want Category) error {
	if b.Descriptor.Category != want {
		return malformed(b.Descriptor.Token, "%s cannot be built as a %s", b.Descriptor.Subtype, want)
	}
	if err := b.Name().Validate(); err != nil {
		return malformed(b.Descriptor.Token, "%s", err)
	}
	if b.Medium == resource.Attached && b.Host == nil {
		return newError(MissingHostController, b.Descriptor, b.Vendor, b.Medium, "attached binding has no host controller")
	}
	return nil
}

// checkInterrupted releases a freshly opened native object when the caller gave up while it was
// being constructed.
func (f *Factory) checkInterrupted(ctx context.Context, b Binding, native interface{ Close(context.Context) error }) error {
	ctxErr := ctx.Err()
	if ctxErr == nil {
		return nil
	}
	if err := native.Close(ctx); err != nil {
		f.logger.Warnw("failed to close abandoned device", "name", b.Name().String(), "error", err)
	}
	return constructionError(b, errors.Wrap(ctxErr, "construction abandoned"))
}
