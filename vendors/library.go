package vendors

import (
	"sync"

	"github.com/pkg/errors"
)

// A Library is the marker a vendor integration registers when it is linked into the build.
type Library struct {
	Vendor Vendor
	// Name is the vendor's library name, e.g. "phoenix6".
	Name string
	// Marker names the vendor symbol whose presence identifies the library.
	Marker string
	// Version is the semantic version of the linked library.
	Version string
}

var (
	linkMu sync.RWMutex
	linked = map[Vendor]Library{}
)

// RegisterLibrary records that a vendor library is linked in. Vendor integration packages call it
// from init functions guarded by build tags, so excluding a vendor from the build leaves no entry.
func RegisterLibrary(lib Library) {
	linkMu.Lock()
	defer linkMu.Unlock()
	if lib.Vendor == Unknown {
		panic(errors.Errorf("cannot register library %q for unknown vendor", lib.Name))
	}
	if old, ok := linked[lib.Vendor]; ok {
		panic(errors.Errorf("trying to register two libraries for vendor %s: %q and %q", lib.Vendor, old.Name, lib.Name))
	}
	linked[lib.Vendor] = lib
}

// DeregisterLibrary removes a previously registered library.
func DeregisterLibrary(v Vendor) {
	linkMu.Lock()
	defer linkMu.Unlock()
	delete(linked, v)
}

// LinkedLibrary returns the library registered for the vendor, if any.
func LinkedLibrary(v Vendor) (Library, bool) {
	linkMu.RLock()
	defer linkMu.RUnlock()
	lib, ok := linked[v]
	return lib, ok
}

// A Probe looks for a vendor's library.
type Probe func(v Vendor) (Library, bool)

// LinkProbe is the Probe backed by the libraries registered with RegisterLibrary.
func LinkProbe(v Vendor) (Library, bool) {
	return LinkedLibrary(v)
}

// StaticProbe returns a Probe that reports exactly the given vendors as present.
func StaticProbe(present ...Vendor) Probe {
	set := make(map[Vendor]struct{}, len(present))
	for _, v := range present {
		set[v] = struct{}{}
	}
	return func(v Vendor) (Library, bool) {
		if _, ok := set[v]; !ok {
			return Library{}, false
		}
		return Library{Vendor: v, Name: v.String(), Marker: "static"}, true
	}
}
