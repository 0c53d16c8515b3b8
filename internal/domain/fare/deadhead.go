package fare

import (
	"errors"
	"strings"

	"fare-engine/internal/domain/geo"
)

// DeadheadPolicy names which ring classification triggers the deadhead
// (empty-return-compensation) surcharge. The ring semantics are an
// unresolved product decision with three competing interpretations, so the
// policy is selected by configuration rather than hard-coded.
type DeadheadPolicy string

const (
	// PolicyRingBandOnly charges only in the band between inner and outer
	// rings. This is the currently-shipped behavior and the default.
	PolicyRingBandOnly DeadheadPolicy = "ring-band-only"

	// PolicyAnyRing charges anywhere inside the outer ring.
	PolicyAnyRing DeadheadPolicy = "any-ring"

	// PolicyInnerRingOnly charges only inside the inner ring.
	PolicyInnerRingOnly DeadheadPolicy = "inner-ring-only"
)

var ErrInvalidDeadheadPolicy = errors.New("invalid deadhead policy")

// ParseDeadheadPolicy validates a policy name from configuration.
func ParseDeadheadPolicy(in string) (DeadheadPolicy, error) {
	p := DeadheadPolicy(strings.ToLower(strings.TrimSpace(in)))
	if p.Valid() {
		return p, nil
	}
	return "", ErrInvalidDeadheadPolicy
}

// Valid reports whether the policy is one of the named strategies.
func (policy DeadheadPolicy) Valid() bool {
	switch policy {
	case PolicyRingBandOnly, PolicyAnyRing, PolicyInnerRingOnly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the DeadheadPolicy.
func (policy DeadheadPolicy) String() string {
	return string(policy)
}

// DeadheadConfig is the surcharge configuration loaded per request.
type DeadheadConfig struct {
	Policy DeadheadPolicy
	Charge float64
}

// Charge returns the deadhead surcharge for a classified drop-off zone under
// the given policy. Trips beyond the outer ring never charge: they are
// long-haul cases outside the zone model.
func (cfg DeadheadConfig) ChargeFor(zone geo.Zone) float64 {
	switch cfg.Policy {
	case PolicyAnyRing:
		if zone == geo.ZoneInnerCore || zone == geo.ZoneOuterBand {
			return cfg.Charge
		}
	case PolicyInnerRingOnly:
		if zone == geo.ZoneInnerCore {
			return cfg.Charge
		}
	default: // ring-band-only
		if zone == geo.ZoneOuterBand {
			return cfg.Charge
		}
	}
	return 0
}
