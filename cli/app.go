// Package cli contains the swerve-hal command line tool: vendor availability, token decoding and
// resolution, the motor catalog, and configuration bring-up against simulated hardware.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/swerve/can"
	"go.viam.com/swerve/components/motor"
	"go.viam.com/swerve/config"
	"go.viam.com/swerve/device"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/resource"
	"go.viam.com/swerve/smartio"
	"go.viam.com/swerve/swerve"
	"go.viam.com/swerve/vendors"
)

const (
	// Flags.
	flagDebug        = "debug"
	flagDisable      = "disable"
	flagLogFile      = "log-file"
	flagLogLevel     = "log-level"
	flagFallback     = "fallback"
	flagAttachedType = "attached-type"
	flagHost         = "host"
	flagID           = "id"
	flagBus          = "canbus"
	flagPin          = "smartio-pin"
)

type appState struct {
	logger  logging.Logger
	out     io.Writer
	logFile *logging.FileAppender
}

// NewApp returns the swerve-hal application writing its output to out.
func NewApp(out io.Writer) *cli.App {
	state := &appState{out: out, logger: logging.NewBlankLogger("swerve-hal")}
	return &cli.App{
		Name:      "swerve-hal",
		Usage:     "inspect swerve drive hardware tokens and configurations",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringSliceFlag{
				Name:  flagDisable,
				Usage: "treat `VENDOR` as not installed",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "only log at `LEVEL` (debug, info, warn, error) or above",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also write logs to the rotating file at `PATH`",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				state.logger = logging.NewDebugLogger("swerve-hal")
			}
			if path := c.String(flagLogFile); path != "" {
				state.logFile = logging.NewFileAppender(path, 64)
				state.logger.AddAppender(state.logFile)
			}
			if name := c.String(flagLogLevel); name != "" {
				level, err := logging.LevelFromString(name)
				if err != nil {
					return err
				}
				state.logger.SetLevel(level)
			}
			logging.ReplaceGlobal(state.logger)
			return nil
		},
		After: func(c *cli.Context) error {
			err := state.logger.Sync()
			if state.logFile != nil {
				err = multierr.Append(err, state.logFile.Close())
			}
			return err
		},
		Commands: []*cli.Command{
			{
				Name:   "vendors",
				Usage:  "list vendor libraries and whether they are available",
				Action: state.vendorsAction,
			},
			{
				Name:      "decode",
				Usage:     "decode device tokens",
				ArgsUsage: "<token>...",
				Action:    state.decodeAction,
			},
			{
				Name:      "check",
				Usage:     "resolve a device token to the vendor and medium that would serve it",
				ArgsUsage: "<token>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagFallback, Usage: "fallback `MEDIUM` for unqualified encoder tokens"},
					&cli.StringFlag{Name: flagAttachedType, Usage: "`VENDOR` of the controller an attached encoder is wired to"},
					&cli.StringFlag{Name: flagHost, Usage: "motor controller `TOKEN` hosting an attached encoder"},
				},
				Action: state.checkAction,
			},
			{
				Name:   "motors",
				Usage:  "list the motor catalog",
				Action: state.motorsAction,
			},
			{
				Name:      "bringup",
				Usage:     "validate a swervedrive file and bring it up against simulated hardware",
				ArgsUsage: "<swervedrive.json>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: flagPin, Usage: "read SmartIO `CHANNEL=PIN` from a GPIO pin instead of the simulator"},
				},
				Action: state.bringupAction,
			},
		},
	}
}

func (s *appState) availability(c *cli.Context) (*vendors.Availability, error) {
	var disabled []vendors.Vendor
	for _, name := range c.StringSlice(flagDisable) {
		v, err := vendors.FromString(name)
		if err != nil {
			return nil, err
		}
		disabled = append(disabled, v)
	}
	var opts []vendors.Option
	if len(disabled) > 0 {
		opts = append(opts, vendors.WithDisabled(disabled...))
	}
	return vendors.NewAvailability(nil, s.logger.Sublogger("vendors"), opts...)
}

// simDependencies backs every bus the tool might touch with a simulator.
func simDependencies(logger logging.Logger, buses ...string) (device.Dependencies, error) {
	names := lo.Uniq(append([]string{can.PrimaryBus}, buses...))
	network, err := can.NewNetwork(logger, lo.Map(names, func(name string, _ int) can.Bus {
		return can.NewSimBus(name)
	})...)
	if err != nil {
		return device.Dependencies{}, err
	}
	return device.Dependencies{CAN: network, SmartIO: smartio.NewSimProvider()}, nil
}

func (s *appState) vendorsAction(c *cli.Context) error {
	avail, err := s.availability(c)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Vendor", "Available", "Library", "Reason"})
	for _, status := range avail.Report() {
		lib := "-"
		if status.Library.Name != "" {
			lib = status.Library.Name + " " + status.Library.Version
		}
		available := color.GreenString("yes")
		if !status.Available {
			available = color.RedString("no")
		}
		t.AppendRow(table.Row{status.Vendor.String(), available, lib, status.Reason})
	}
	_, err = fmt.Fprintln(s.out, t.Render())
	return err
}

func (s *appState) decodeAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("decode needs at least one token")
	}
	var failed bool
	for _, token := range c.Args().Slice() {
		desc, err := device.Decode(token)
		if err != nil {
			failed = true
			fmt.Fprintf(s.out, "%s: %v\n", token, err)
			continue
		}
		media, def, _ := device.Media(desc.Subtype)
		fmt.Fprintf(s.out, "%s: category=%s subtype=%s medium=%s qualifier=%q media=%s default=%s\n",
			token, desc.Category, desc.Subtype, desc.Medium, desc.Qualifier,
			strings.Join(lo.Map(media, func(m resource.Medium, _ int) string { return m.String() }), ","), def)
	}
	if failed {
		return errors.New("some tokens did not decode")
	}
	return nil
}

func (s *appState) checkAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("check needs exactly one token")
	}
	ctx := c.Context
	avail, err := s.availability(c)
	if err != nil {
		return err
	}
	deps, err := simDependencies(s.logger)
	if err != nil {
		return err
	}
	p := device.NewPipeline(avail, deps, s.logger.Sublogger("device"))

	var opts device.EncoderOptions
	if fallback := c.String(flagFallback); fallback != "" {
		if opts.Fallback, err = resource.MediumFromString(fallback); err != nil {
			return err
		}
	}
	if attached := c.String(flagAttachedType); attached != "" {
		if opts.AttachedType, err = vendors.FromString(attached); err != nil {
			return err
		}
	}
	if host := c.String(flagHost); host != "" {
		if opts.Host, err = p.Motor(ctx, host, resource.Identity{}); err != nil {
			return errors.Wrap(err, "building host controller")
		}
		defer func() {
			_ = opts.Host.Close(ctx)
		}()
		if opts.AttachedType == vendors.Unknown {
			opts.AttachedType = opts.Host.Name().Vendor
		}
	}

	b, err := p.Check(c.Args().First(), opts)
	if err != nil {
		return errors.Wrapf(err, "check failed (%s)", device.KindOf(err))
	}
	fmt.Fprintf(s.out, "%s -> vendor=%s medium=%s\n", b.Descriptor.Token, b.Vendor, b.Medium)
	return nil
}

func (s *appState) motorsAction(c *cli.Context) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Model", "Stall torque (N·m)", "Stall current (A)", "Free current (A)", "Free speed (rpm)", "rpm/V"})
	for _, model := range motor.Models() {
		spec, err := motor.Lookup(model)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{
			model,
			fmt.Sprintf("%.2f", spec.StallTorque),
			fmt.Sprintf("%.0f", spec.StallCurrent),
			fmt.Sprintf("%.1f", spec.FreeCurrent),
			fmt.Sprintf("%.0f", spec.FreeSpeedRPM()),
			fmt.Sprintf("%.1f", spec.FreeSpeedRPM()/spec.NominalVoltage),
		})
	}
	_, err := fmt.Fprintln(s.out, t.Render())
	return err
}

func parsePins(specs []string) (map[int]string, error) {
	pins := map[int]string{}
	for _, spec := range specs {
		channel, pin, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, errors.Errorf("expected CHANNEL=PIN, got %q", spec)
		}
		n, err := strconv.Atoi(channel)
		if err != nil {
			return nil, errors.Wrapf(err, "bad channel in %q", spec)
		}
		if err := smartio.ValidateChannel(n); err != nil {
			return nil, err
		}
		pins[n] = pin
	}
	return pins, nil
}

func configBuses(cfg *config.Drive) []string {
	buses := []string{cfg.IMU.CANBus}
	for _, m := range cfg.Modules {
		buses = append(buses, m.Drive.CANBus, m.Angle.CANBus, m.Encoder.CANBus)
	}
	return buses
}

func (s *appState) bringupAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("bringup needs the path of a swervedrive file")
	}
	ctx := c.Context
	cfg, err := config.Read(c.Args().First())
	if err != nil {
		return err
	}
	cfg.Vendors.Disabled = append(cfg.Vendors.Disabled, c.StringSlice(flagDisable)...)
	deps, err := simDependencies(s.logger, configBuses(cfg)...)
	if err != nil {
		return err
	}
	if pinSpecs := c.StringSlice(flagPin); len(pinSpecs) > 0 {
		pins, err := parsePins(pinSpecs)
		if err != nil {
			return err
		}
		provider, err := smartio.NewGPIOProvider(pins, s.logger.Sublogger("smartio"))
		if err != nil {
			return err
		}
		deps.SmartIO = provider
	}

	drive, err := swerve.NewFromConfig(ctx, cfg, deps, s.logger)
	if err != nil {
		fmt.Fprintf(s.out, "bring-up failed:\n")
		return err
	}
	for _, name := range drive.Names() {
		fmt.Fprintln(s.out, name.String())
	}
	return drive.Close(ctx)
}
