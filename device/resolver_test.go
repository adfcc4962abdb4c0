package device

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/smartio"
	"go.viam.com/swerve/vendors"
)

var allVendors = []vendors.Vendor{
	vendors.CTRE, vendors.REV, vendors.ThriftyBot, vendors.AndyMark, vendors.Redux, vendors.Studica,
}

type testRig struct {
	pipeline *Pipeline
	primary  *can.SimBus
	canivore *can.SimBus
	smartio  *smartio.SimProvider
	avail    *vendors.Availability
}

func newTestRig(t *testing.T, present ...vendors.Vendor) *testRig {
	t.Helper()
	logger := logging.NewTestLogger(t)
	rig := &testRig{
		primary:  can.NewSimBus(can.PrimaryBus),
		canivore: can.NewSimBus("canivore"),
		smartio:  smartio.NewSimProvider(),
	}
	network, err := can.NewNetwork(logger, rig.primary, rig.canivore)
	test.That(t, err, test.ShouldBeNil)
	rig.avail, err = vendors.NewAvailability(vendors.StaticProbe(present...), logger)
	test.That(t, err, test.ShouldBeNil)
	rig.pipeline = NewPipeline(rig.avail, Dependencies{CAN: network, SmartIO: rig.smartio}, logger)
	return rig
}

func (rig *testRig) host(t *testing.T, token string) *motor.Controller {
	t.Helper()
	host, err := rig.pipeline.Motor(context.Background(), token, Identity{ID: 1})
	test.That(t, err, test.ShouldBeNil)
	return host
}

func (rig *testRig) resolve(t *testing.T, token string, fallback resource.Medium, attachedType vendors.Vendor, host *motor.Controller) (Binding, error) {
	t.Helper()
	desc, err := Decode(token)
	test.That(t, err, test.ShouldBeNil)
	return rig.pipeline.Resolver().Resolve(desc, fallback, attachedType, host)
}

func TestResolvePrecedence(t *testing.T) {
	rig := newTestRig(t, allVendors...)
	ctreHost := rig.host(t, "talonfx_krakenx60")

	for _, tc := range []struct {
		token  string
		vendor vendors.Vendor
		medium resource.Medium
	}{
		{"talonfx_krakenx60", vendors.CTRE, resource.CAN},
		{"talonfxs_krakenx44", vendors.CTRE, resource.CAN},
		{"sparkmax_neo", vendors.REV, resource.CAN},
		{"sparkflex_vortex", vendors.REV, resource.CAN},
		{"nova_minion", vendors.ThriftyBot, resource.CAN},

		{"cancoder", vendors.CTRE, resource.CAN},
		{"canandmag", vendors.Redux, resource.CAN},
		{"andymarkhexbore", vendors.AndyMark, resource.CAN},
		{"thrifty", vendors.ThriftyBot, resource.CAN},
		{"revthroughbore", vendors.SmartIO, resource.PWM},
		{"srxmag", vendors.SmartIO, resource.PWM},

		{"cancoder_can", vendors.CTRE, resource.CAN},
		{"canandmag_can", vendors.Redux, resource.CAN},
		{"andymarkhexbore_can", vendors.AndyMark, resource.CAN},
		{"thrifty_can", vendors.ThriftyBot, resource.CAN},

		{"canandmag_pwm", vendors.SmartIO, resource.PWM},
		{"andymarkhexbore_pwm", vendors.SmartIO, resource.PWM},
		{"thrifty_pwm", vendors.SmartIO, resource.PWM},
		{"revthroughbore_pwm", vendors.SmartIO, resource.PWM},
		{"srxmag_pwm", vendors.SmartIO, resource.PWM},

		{"canandmag_attached", vendors.CTRE, resource.Attached},
		{"andymarkhexbore_attached", vendors.CTRE, resource.Attached},
		{"thrifty_attached", vendors.CTRE, resource.Attached},
		{"revthroughbore_attached", vendors.CTRE, resource.Attached},
		{"srxmag_attached", vendors.CTRE, resource.Attached},

		{"pigeon2", vendors.CTRE, resource.CAN},
		{"canandgyro", vendors.Redux, resource.CAN},
		{"navx", vendors.Studica, resource.CAN},
		{"navx2", vendors.Studica, resource.CAN},
		{"navx3_can", vendors.Studica, resource.CAN},
	} {
		t.Run(tc.token, func(t *testing.T) {
			b, err := rig.resolve(t, tc.token, resource.Unknown, vendors.CTRE, ctreHost)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, b.Vendor, test.ShouldEqual, tc.vendor)
			test.That(t, b.Medium, test.ShouldEqual, tc.medium)
			if tc.medium == resource.Attached {
				test.That(t, b.Host, test.ShouldEqual, ctreHost)
			} else {
				test.That(t, b.Host, test.ShouldBeNil)
			}
		})
	}
}

func TestResolveUnsupportedMedium(t *testing.T) {
	rig := newTestRig(t, allVendors...)
	ctreHost := rig.host(t, "talonfx_krakenx60")
	for _, token := range []string{
		"cancoder_pwm",
		"cancoder_attached",
		"revthroughbore_can",
		"srxmag_can",
		"pigeon2_pwm",
		"navx_attached",
		"canandgyro_pwm",
	} {
		t.Run(token, func(t *testing.T) {
			_, err := rig.resolve(t, token, resource.Unknown, vendors.CTRE, ctreHost)
			test.That(t, errors.Is(err, UnsupportedMedium), test.ShouldBeTrue)
		})
	}
}

func TestResolveFallback(t *testing.T) {
	rig := newTestRig(t, allVendors...)

	b, err := rig.resolve(t, "canandmag", resource.PWM, vendors.Unknown, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Vendor, test.ShouldEqual, vendors.SmartIO)
	test.That(t, b.Medium, test.ShouldEqual, resource.PWM)

	// A medium in the token always beats the fallback.
	b, err = rig.resolve(t, "canandmag_can", resource.PWM, vendors.Unknown, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Vendor, test.ShouldEqual, vendors.Redux)
	test.That(t, b.Medium, test.ShouldEqual, resource.CAN)

	b, err = rig.resolve(t, "srxmag", resource.CAN, vendors.Unknown, nil)
	test.That(t, errors.Is(err, UnsupportedMedium), test.ShouldBeTrue)
	test.That(t, b, test.ShouldResemble, Binding{})

	_, err = rig.resolve(t, "cancoder", resource.PWM, vendors.Unknown, nil)
	test.That(t, errors.Is(err, UnsupportedMedium), test.ShouldBeTrue)

	// Motors are always CAN.
	b, err = rig.resolve(t, "sparkmax_neo", resource.PWM, vendors.Unknown, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Medium, test.ShouldEqual, resource.CAN)
}

func TestResolveAttached(t *testing.T) {
	rig := newTestRig(t, allVendors...)
	ctreHost := rig.host(t, "talonfx_krakenx60")
	revHost := rig.host(t, "sparkmax_neo")
	novaHost := rig.host(t, "nova_neo")

	_, err := rig.resolve(t, "revthroughbore_attached", resource.Unknown, vendors.Unknown, ctreHost)
	test.That(t, errors.Is(err, MissingHostController), test.ShouldBeTrue)

	_, err = rig.resolve(t, "revthroughbore_attached", resource.Unknown, vendors.CTRE, nil)
	test.That(t, errors.Is(err, MissingHostController), test.ShouldBeTrue)

	_, err = rig.resolve(t, "revthroughbore_attached", resource.Unknown, vendors.REV, ctreHost)
	test.That(t, errors.Is(err, MissingHostController), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not a rev controller")

	// Attached as a fallback goes through the same checks.
	_, err = rig.resolve(t, "srxmag", resource.Attached, vendors.Unknown, nil)
	test.That(t, errors.Is(err, MissingHostController), test.ShouldBeTrue)

	b, err := rig.resolve(t, "thrifty_attached", resource.Unknown, vendors.REV, revHost)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Vendor, test.ShouldEqual, vendors.REV)
	test.That(t, b.Host, test.ShouldEqual, revHost)

	for _, subtype := range []string{"canandmag", "revthroughbore", "srxmag"} {
		b, err = rig.resolve(t, subtype+"_attached", resource.Unknown, vendors.ThriftyBot, novaHost)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, b.Vendor, test.ShouldEqual, vendors.ThriftyBot)
	}
	for _, subtype := range []string{"andymarkhexbore", "thrifty"} {
		_, err = rig.resolve(t, subtype+"_attached", resource.Unknown, vendors.ThriftyBot, novaHost)
		test.That(t, errors.Is(err, UnsupportedMedium), test.ShouldBeTrue)
	}
}

func TestResolveVendorUnavailable(t *testing.T) {
	absent := newTestRig(t, vendors.CTRE)
	_, err := absent.resolve(t, "canandmag_can", resource.Unknown, vendors.Unknown, nil)
	test.That(t, errors.Is(err, VendorUnavailable), test.ShouldBeTrue)
	var devErr *Error
	test.That(t, errors.As(err, &devErr), test.ShouldBeTrue)
	test.That(t, devErr.Vendor, test.ShouldEqual, vendors.Redux)
	test.That(t, devErr.Medium, test.ShouldEqual, resource.CAN)
	test.That(t, err.Error(), test.ShouldContainSubstring, "library not linked")

	present := newTestRig(t, vendors.Redux)
	b, err := present.resolve(t, "canandmag_can", resource.Unknown, vendors.Unknown, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Vendor, test.ShouldEqual, vendors.Redux)
	test.That(t, b.Medium, test.ShouldEqual, resource.CAN)

	// Never substituted by another medium.
	_, err = absent.resolve(t, "canandmag", resource.Unknown, vendors.Unknown, nil)
	test.That(t, errors.Is(err, VendorUnavailable), test.ShouldBeTrue)

	// Available but nothing registered.
	DeregisterGyro(vendors.Studica)
	defer RegisterGyro(vendors.Studica, Registration[GyroConstructor]{Constructor: fakeGyro})
	studica := newTestRig(t, vendors.Studica)
	_, err = studica.resolve(t, "navx2", resource.Unknown, vendors.Unknown, nil)
	test.That(t, errors.Is(err, VendorUnavailable), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no gyro constructor registered")
}

func TestPWMNeverChecksAvailability(t *testing.T) {
	ctx := context.Background()
	rig := newTestRig(t)
	for _, subtype := range Subtypes(CategoryAbsoluteEncoder) {
		if _, _, ok := Media(subtype); !ok || !routes[subtype].pwm {
			continue
		}
		t.Run(subtype, func(t *testing.T) {
			b, err := rig.resolve(t, subtype+"_pwm", resource.Unknown, vendors.Unknown, nil)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, b.Vendor, test.ShouldEqual, vendors.SmartIO)

			rig.smartio.SetDutyCycle(4, 0.25)
			enc, err := rig.pipeline.AbsoluteEncoder(ctx, subtype+"_pwm", Identity{Channel: 4}, EncoderOptions{})
			test.That(t, err, test.ShouldBeNil)
			angle, err := enc.Angle(ctx)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, angle.Degrees(), test.ShouldAlmostEqual, 90)
			test.That(t, enc.Close(ctx), test.ShouldBeNil)
		})
	}
	test.That(t, rig.avail.ProbeCount(), test.ShouldEqual, 0)
	test.That(t, rig.smartio.OpenPorts(), test.ShouldEqual, 0)
}

func TestResolveRejectsForeignDescriptor(t *testing.T) {
	rig := newTestRig(t, allVendors...)
	_, err := rig.pipeline.Resolver().Resolve(Descriptor{Subtype: "cancoder", Category: CategoryGyro}, resource.Unknown, vendors.Unknown, nil)
	test.That(t, errors.Is(err, MalformedDescriptor), test.ShouldBeTrue)
}

func TestNilLoggersFallBackToGlobal(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	previous := logging.Global()
	logging.ReplaceGlobal(logger)
	defer logging.ReplaceGlobal(previous)

	avail, err := vendors.NewAvailability(vendors.StaticProbe(vendors.CTRE), nil)
	test.That(t, err, test.ShouldBeNil)
	resolver := NewResolver(avail, nil)

	desc, err := Decode("cancoder")
	test.That(t, err, test.ShouldBeNil)
	b, err := resolver.Resolve(desc, resource.Unknown, vendors.Unknown, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Vendor, test.ShouldEqual, vendors.CTRE)
	test.That(t, logs.FilterMessage("resolved device").Len(), test.ShouldEqual, 1)

	desc, err = Decode("canandgyro")
	test.That(t, err, test.ShouldBeNil)
	_, err = resolver.Resolve(desc, resource.Unknown, vendors.Unknown, nil)
	test.That(t, errors.Is(err, VendorUnavailable), test.ShouldBeTrue)
	test.That(t, logs.FilterMessage("vendor unavailable").Len(), test.ShouldEqual, 1)
}
