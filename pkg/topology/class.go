package topology

import (
	"fmt"
	"slices"
)

// ClassID identifies a device class by its position in a [Registry].
// Input documents refer to classes by this index ("devclass").
type ClassID int

// DeviceClass describes a category of network device. Weight is a total-order
// priority shared by edge classification and draw ordering; Color is a colour
// value understood by the renderer (single-letter code, name, or #rrggbb).
type DeviceClass struct {
	ID     ClassID
	Name   string
	Weight int
	Color  string
}

// Registry is the fixed, ordered set of device classes for a run. It comes
// from configuration and is never derived from input data.
//
// The zero value is an empty registry that resolves no class.
type Registry struct {
	classes []DeviceClass
}

// NewRegistry builds a registry from classes, assigning each one the ID of its
// position. Names must be non-empty and unique.
func NewRegistry(classes ...DeviceClass) (Registry, error) {
	if len(classes) == 0 {
		return Registry{}, ErrEmptyRegistry
	}
	seen := make(map[string]bool, len(classes))
	out := make([]DeviceClass, len(classes))
	for i, c := range classes {
		if c.Name == "" {
			return Registry{}, fmt.Errorf("class %d: %w", i, ErrInvalidClassName)
		}
		if seen[c.Name] {
			return Registry{}, fmt.Errorf("class %q: %w", c.Name, ErrDuplicateClass)
		}
		seen[c.Name] = true
		c.ID = ClassID(i)
		out[i] = c
	}
	return Registry{classes: out}, nil
}

// DefaultRegistry returns the four well-known device classes.
func DefaultRegistry() Registry {
	r, _ := NewRegistry(DefaultClasses()...)
	return r
}

// DefaultClasses returns the definitions behind [DefaultRegistry], in ID order.
func DefaultClasses() []DeviceClass {
	return []DeviceClass{
		{Name: "backbone", Weight: 1, Color: "g"},
		{Name: "stationary", Weight: 3, Color: "y"},
		{Name: "portable", Weight: 6, Color: "r"},
		{Name: "unknown", Weight: 9, Color: "b"},
	}
}

// Len returns the number of classes.
func (r Registry) Len() int { return len(r.classes) }

// Class resolves id. The second result is false for out-of-range IDs.
func (r Registry) Class(id ClassID) (DeviceClass, bool) {
	if id < 0 || int(id) >= len(r.classes) {
		return DeviceClass{}, false
	}
	return r.classes[id], true
}

// Classes returns a copy of all classes in ID order.
func (r Registry) Classes() []DeviceClass {
	return slices.Clone(r.classes)
}

// ByName looks a class up by name.
func (r Registry) ByName(name string) (DeviceClass, bool) {
	for _, c := range r.classes {
		if c.Name == name {
			return c, true
		}
	}
	return DeviceClass{}, false
}
