package render

import (
	"fmt"
	"strings"

	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Mode selects how edges are classified.
type Mode string

const (
	// ModeDirected buckets an edge under its destination's class.
	ModeDirected Mode = "directed"

	// ModeUndirected buckets an edge under the heavier endpoint class.
	ModeUndirected Mode = "undirected"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDirected, ModeUndirected:
		return m, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown mode %q (want %s or %s)", s, ModeDirected, ModeUndirected)
}

// EdgePolicy assigns an edge to a device class.
type EdgePolicy interface {
	Classify(e *topology.Edge) topology.DeviceClass
}

// DestinationPolicy classifies an edge by its destination node.
type DestinationPolicy struct{}

// Classify returns the destination's class.
func (DestinationPolicy) Classify(e *topology.Edge) topology.DeviceClass {
	return e.To.Class
}

// MaxWeightPolicy classifies an edge by whichever endpoint class has the
// higher weight. Distinct classes of equal weight resolve to the lower class
// ID, so the result never depends on edge direction.
type MaxWeightPolicy struct{}

// Classify returns the heavier endpoint class.
func (MaxWeightPolicy) Classify(e *topology.Edge) topology.DeviceClass {
	from, to := e.From.Class, e.To.Class
	switch {
	case from.Weight > to.Weight:
		return from
	case from.Weight < to.Weight:
		return to
	case from.ID < to.ID:
		return from
	}
	return to
}

// PolicyFor returns the policy implementing m.
func PolicyFor(m Mode) (EdgePolicy, error) {
	switch m {
	case ModeDirected:
		return DestinationPolicy{}, nil
	case ModeUndirected:
		return MaxWeightPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", m)
}
