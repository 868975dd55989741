// Package shipping estimates delivery fee and ETA from a postal code and the
// cart's selling total. Estimates are pure functions of their inputs and the
// configured Policy.
package shipping

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// postalCodePattern accepts six digits with a non-zero first digit.
var postalCodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// InvalidMessage is shown for postal codes that fail validation.
const InvalidMessage = "Please enter a valid 6-digit pincode."

// Policy kinds.
const (
	KindThreshold = "threshold"
	KindZone      = "zone"
)

// Defaults for the threshold policy, in minor units.
const (
	DefaultFreeFloorCents = 99900
	DefaultFlatFeeCents   = 8000
	DefaultETA            = "5–7 working days"
)

// Estimate is the outcome for one postal code. When Valid is false no fee applies.
type Estimate struct {
	PostalCode string
	Valid      bool
	FeeCents   int64
	ETALabel   string
	Message    string
}

// Zone is a fee band selected by postal code prefix.
type Zone struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
	FeeCents int64    `yaml:"fee_cents"`
	// FreeFloorCents waives the fee at or above this total; 0 disables it.
	FreeFloorCents int64  `yaml:"free_floor_cents"`
	ETA            string `yaml:"eta"`
}

// Policy is the deployment's shipping configuration.
type Policy struct {
	Kind           string `yaml:"kind"`
	FreeFloorCents int64  `yaml:"free_floor_cents"`
	FlatFeeCents   int64  `yaml:"flat_fee_cents"`
	ETA            string `yaml:"eta"`
	Zones          []Zone `yaml:"zones"`
	DefaultZone    Zone   `yaml:"default_zone"`
}

// DefaultPolicy is free delivery from 999.00 and a flat 80.00 below it.
func DefaultPolicy() Policy {
	return Policy{
		Kind:           KindThreshold,
		FreeFloorCents: DefaultFreeFloorCents,
		FlatFeeCents:   DefaultFlatFeeCents,
		ETA:            DefaultETA,
	}
}

// Validate checks a policy and fills blank ETAs.
func (p *Policy) Validate() error {
	p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
	if p.Kind == "" {
		p.Kind = KindThreshold
	}
	if p.ETA == "" {
		p.ETA = DefaultETA
	}
	switch p.Kind {
	case KindThreshold:
		if p.FreeFloorCents < 0 || p.FlatFeeCents < 0 {
			return fmt.Errorf("shipping: threshold amounts must not be negative")
		}
	case KindZone:
		if len(p.Zones) == 0 && p.DefaultZone.FeeCents == 0 && p.DefaultZone.FreeFloorCents == 0 {
			return fmt.Errorf("shipping: zone policy needs zones or a default zone")
		}
		for i := range p.Zones {
			if err := p.validateZone(&p.Zones[i]); err != nil {
				return err
			}
			if len(p.Zones[i].Prefixes) == 0 {
				return fmt.Errorf("shipping: zone %q has no prefixes", p.Zones[i].Name)
			}
		}
		if err := p.validateZone(&p.DefaultZone); err != nil {
			return err
		}
	default:
		return fmt.Errorf("shipping: unknown policy kind %q", p.Kind)
	}
	return nil
}

func (p *Policy) validateZone(z *Zone) error {
	if z.FeeCents < 0 || z.FreeFloorCents < 0 {
		return fmt.Errorf("shipping: zone %q amounts must not be negative", z.Name)
	}
	for _, prefix := range z.Prefixes {
		if prefix == "" || strings.Trim(prefix, "0123456789") != "" {
			return fmt.Errorf("shipping: zone %q has a non-numeric prefix %q", z.Name, prefix)
		}
	}
	if z.ETA == "" {
		z.ETA = p.ETA
	}
	return nil
}

// ValidPostalCode reports whether code passes the postal code rule.
func ValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(code)
}

type prefixZone struct {
	prefix string
	zone   Zone
}

// Estimator applies a Policy.
type Estimator struct {
	policy Policy
	// Longest prefix first so more specific zones win.
	prefixes []prefixZone
}

// NewEstimator validates policy and returns an estimator for it.
func NewEstimator(policy Policy) (*Estimator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{policy: policy}
	for _, z := range policy.Zones {
		for _, prefix := range z.Prefixes {
			e.prefixes = append(e.prefixes, prefixZone{prefix: prefix, zone: z})
		}
	}
	sort.SliceStable(e.prefixes, func(i, j int) bool {
		return len(e.prefixes[i].prefix) > len(e.prefixes[j].prefix)
	})
	return e, nil
}

// Policy returns the active configuration.
func (e *Estimator) Policy() Policy {
	return e.policy
}

// Estimate computes fee and ETA. The code is trimmed before validation.
func (e *Estimator) Estimate(postalCode string, sellTotalCents int64) Estimate {
	code := strings.TrimSpace(postalCode)
	if !ValidPostalCode(code) {
		return Estimate{PostalCode: code, Message: InvalidMessage}
	}

	if e.policy.Kind == KindZone {
		z := e.zoneFor(code)
		return Estimate{
			PostalCode: code,
			Valid:      true,
			FeeCents:   fee(sellTotalCents, z.FreeFloorCents, z.FeeCents),
			ETALabel:   z.ETA,
		}
	}
	return Estimate{
		PostalCode: code,
		Valid:      true,
		FeeCents:   fee(sellTotalCents, e.policy.FreeFloorCents, e.policy.FlatFeeCents),
		ETALabel:   e.policy.ETA,
	}
}

func (e *Estimator) zoneFor(code string) Zone {
	for _, pz := range e.prefixes {
		if strings.HasPrefix(code, pz.prefix) {
			return pz.zone
		}
	}
	return e.policy.DefaultZone
}

func fee(total, floor, flat int64) int64 {
	if floor > 0 && total >= floor {
		return 0
	}
	return flat
}
