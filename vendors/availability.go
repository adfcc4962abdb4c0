package vendors

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"go.viam.com/swerve/logging"
)

// Status describes the outcome of probing a single vendor.
type Status struct {
	Vendor    Vendor
	Available bool
	Library   Library
	// Reason explains why a vendor is unavailable. Empty when available.
	Reason string
}

type availabilityEntry struct {
	once   sync.Once
	status Status
}

// Availability answers whether a vendor integration is present. Each vendor is probed at most once
// per Availability; later queries return the cached answer.
type Availability struct {
	probe    Probe
	logger   logging.Logger
	minimums map[Vendor]*semver.Constraints
	disabled map[Vendor]struct{}

	mu      sync.Mutex
	entries map[Vendor]*availabilityEntry

	probes atomic.Int64
}

// An Option configures an Availability.
type Option func(*Availability) error

// WithMinimumVersion treats a linked library that does not satisfy the constraint as unavailable.
func WithMinimumVersion(v Vendor, constraint string) Option {
	return func(a *Availability) error {
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return errors.Wrapf(err, "invalid version constraint for %s", v)
		}
		a.minimums[v] = c
		return nil
	}
}

// WithDisabled forces the given vendors off regardless of what is linked.
func WithDisabled(vs ...Vendor) Option {
	return func(a *Availability) error {
		for _, v := range vs {
			if v.VendorIndependent() {
				return errors.Errorf("vendor %s cannot be disabled", v)
			}
			a.disabled[v] = struct{}{}
		}
		return nil
	}
}

// NewAvailability returns an Availability answering from the given probe. A nil probe means
// LinkProbe and a nil logger means the global logger.
func NewAvailability(probe Probe, logger logging.Logger, opts ...Option) (*Availability, error) {
	if probe == nil {
		probe = LinkProbe
	}
	a := &Availability{
		probe:    probe,
		logger:   logging.OrGlobal(logger),
		minimums: map[Vendor]*semver.Constraints{},
		disabled: map[Vendor]struct{}{},
		entries:  map[Vendor]*availabilityEntry{},
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// IsAvailable reports whether the vendor's integration can be used.
func (a *Availability) IsAvailable(v Vendor) bool {
	return a.Status(v).Available
}

// Status returns the cached probe outcome for the vendor, probing it on first use.
func (a *Availability) Status(v Vendor) Status {
	a.mu.Lock()
	entry, ok := a.entries[v]
	if !ok {
		entry = &availabilityEntry{}
		a.entries[v] = entry
	}
	a.mu.Unlock()

	entry.once.Do(func() {
		entry.status = a.compute(v)
		if !entry.status.Available {
			a.logger.Debugw("vendor unavailable", "vendor", v.String(), "reason", entry.status.Reason)
		}
	})
	return entry.status
}

func (a *Availability) compute(v Vendor) (status Status) {
	status.Vendor = v
	switch {
	case v == Unknown:
		status.Reason = "unknown vendor"
		return status
	case v.VendorIndependent():
		status.Available = true
		return status
	}
	if _, ok := a.disabled[v]; ok {
		status.Reason = "disabled by configuration"
		return status
	}

	lib, ok := a.doProbe(v)
	if !ok {
		status.Reason = "library not linked"
		return status
	}
	status.Library = lib

	if c, ok := a.minimums[v]; ok {
		if lib.Version == "" {
			status.Reason = "library version unknown"
			return status
		}
		version, err := semver.NewVersion(lib.Version)
		if err != nil {
			status.Reason = errors.Wrapf(err, "bad library version %q", lib.Version).Error()
			return status
		}
		if !c.Check(version) {
			status.Reason = errors.Errorf("library version %s does not satisfy %s", version, c).Error()
			return status
		}
	}
	status.Available = true
	return status
}

// doProbe runs the probe, treating a panicking probe as "not linked".
func (a *Availability) doProbe(v Vendor) (lib Library, ok bool) {
	a.probes.Inc()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warnw("vendor probe panicked", "vendor", v.String(), "panic", r)
			lib, ok = Library{}, false
		}
	}()
	return a.probe(v)
}

// ProbeCount returns how many times the underlying probe has been invoked.
func (a *Availability) ProbeCount() int {
	return int(a.probes.Load())
}

// Report returns the status of every known vendor, sorted by vendor.
func (a *Availability) Report() []Status {
	all := All()
	out := make([]Status, 0, len(all))
	for _, v := range all {
		out = append(out, a.Status(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vendor < out[j].Vendor })
	return out
}
