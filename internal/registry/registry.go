package registry

import (
	"sort"
	"sync"
)

// Registry stores liquid classes keyed by device/substance pair. It is
// seeded with the curated defaults and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]LiquidClass
}

// New creates a registry seeded with the default liquid classes.
func New() *Registry {
	r := &Registry{classes: make(map[string]LiquidClass)}
	for _, lc := range defaultClasses() {
		r.classes[lc.Key()] = lc
	}
	return r
}

// NewEmpty creates a registry without the default seed.
func NewEmpty() *Registry {
	return &Registry{classes: make(map[string]LiquidClass)}
}

// Add inserts or replaces a liquid class.
func (r *Registry) Add(lc LiquidClass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[lc.Key()] = lc
}

// Remove deletes the class for a device/substance pair and reports whether
// it existed.
func (r *Registry) Remove(device DeviceClass, substance Substance) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := LiquidClass{Device: device, Substance: substance}.Key()
	if _, ok := r.classes[key]; !ok {
		return false
	}
	delete(r.classes, key)
	return true
}

// Get looks up the class for a device/substance pair.
func (r *Registry) Get(device DeviceClass, substance Substance) (LiquidClass, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lc, ok := r.classes[LiquidClass{Device: device, Substance: substance}.Key()]
	return lc, ok
}

// List returns all classes sorted by key.
func (r *Registry) List() []LiquidClass {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.classes))
	for k := range r.classes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]LiquidClass, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.classes[k])
	}
	return out
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Reference resolves the starting point for a calibration run: the curated
// class when one exists, otherwise the generic fallback.
func (r *Registry) Reference(device DeviceClass, substance Substance) LiquidClass {
	if lc, ok := r.Get(device, substance); ok {
		return lc
	}
	lc := FallbackReference()
	lc.Device = device
	lc.Substance = substance
	return lc
}
