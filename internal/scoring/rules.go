package scoring

import (
	"fmt"
	"math"

	"github.com/wonny/astro/internal/contracts"
)

// Kind what a rule compares
type Kind string

const (
	KindNatal   Kind = "natal"   // two natal longitudes
	KindTransit Kind = "transit" // a transiting body against a natal longitude
)

// Nature how a rule reacts to each aspect type
type Nature string

const (
	Benefic Nature = "benefic"
	Malefic Nature = "malefic"
	Mixed   Nature = "mixed"
)

// multipliers sign and magnitude per (nature, aspect)
// ⭐ SSOT: 애스펙트 가중치는 여기서만 정의
var multipliers = map[Nature]map[contracts.AspectType]float64{
	Benefic: {
		contracts.Conjunction: 1,
		contracts.Sextile:     0.6,
		contracts.Square:      -0.4,
		contracts.Trine:       1,
		contracts.Opposition:  -0.4,
	},
	Malefic: {
		contracts.Conjunction: -0.6,
		contracts.Sextile:     0.3,
		contracts.Square:      -1,
		contracts.Trine:       0.4,
		contracts.Opposition:  -1,
	},
	Mixed: {
		contracts.Conjunction: 0.8,
		contracts.Sextile:     0.5,
		contracts.Square:      -0.6,
		contracts.Trine:       0.7,
		contracts.Opposition:  -0.6,
	},
}

// Multiplier returns the signed factor of an aspect under a nature
func Multiplier(n Nature, a contracts.AspectType) float64 {
	return multipliers[n][a]
}

// maxRuleOrb rule orbs must keep adjacent aspect windows apart
const maxRuleOrb = 15.0

// Rule one weighted comparison inside a (dimension, horizon) table
type Rule struct {
	Name   string          `yaml:"name" json:"name"`
	Kind   Kind            `yaml:"kind" json:"kind"`
	From   contracts.Point `yaml:"from" json:"from"` // transit: the transiting body
	To     contracts.Point `yaml:"to" json:"to"`     // natal point
	Nature Nature          `yaml:"nature" json:"nature"`
	Weight float64         `yaml:"weight" json:"weight"`
	Orb    float64         `yaml:"orb" json:"orb"`
}

// Validate checks a single rule
func (r Rule) Validate() error {
	if r.Name == "" {
		return ValidationError{"name", "required"}
	}
	switch r.Kind {
	case KindNatal:
		if !r.From.Valid() {
			return ValidationError{r.Name + ".from", fmt.Sprintf("unknown point %q", r.From)}
		}
	case KindTransit:
		if _, ok := r.From.Body(); !ok {
			return ValidationError{r.Name + ".from", fmt.Sprintf("transit rules need a body, got %q", r.From)}
		}
	default:
		return ValidationError{r.Name + ".kind", fmt.Sprintf("must be natal or transit, got %q", r.Kind)}
	}
	if !r.To.Valid() {
		return ValidationError{r.Name + ".to", fmt.Sprintf("unknown point %q", r.To)}
	}
	if _, ok := multipliers[r.Nature]; !ok {
		return ValidationError{r.Name + ".nature", fmt.Sprintf("must be benefic, malefic or mixed, got %q", r.Nature)}
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) || r.Weight < 0 {
		return ValidationError{r.Name + ".weight", "must be a finite value >= 0"}
	}
	if !(r.Orb > 0 && r.Orb < maxRuleOrb) {
		return ValidationError{r.Name + ".orb", fmt.Sprintf("must be in (0, %v)", maxRuleOrb)}
	}
	return nil
}

// Key identifies one rule table
type Key struct {
	Dimension contracts.Dimension
	Horizon   contracts.Horizon
}

// RuleSet rule tables keyed by (dimension, horizon)
type RuleSet map[Key][]Rule

// Rules returns the table for (d, h)
func (rs RuleSet) Rules(d contracts.Dimension, h contracts.Horizon) []Rule {
	return rs[Key{Dimension: d, Horizon: h}]
}

// TransitBodies returns the transiting bodies any table of h refers to, in chart order
func (rs RuleSet) TransitBodies(h contracts.Horizon) []contracts.Body {
	used := make(map[contracts.Body]bool)
	for _, d := range contracts.Dimensions {
		for _, r := range rs.Rules(d, h) {
			if b, ok := r.From.Body(); ok && r.Kind == KindTransit {
				used[b] = true
			}
		}
	}

	bodies := make([]contracts.Body, 0, len(used))
	for _, b := range contracts.Bodies {
		if used[b] {
			bodies = append(bodies, b)
		}
	}
	return bodies
}

// Validate checks every table is present and every rule is well formed
func (rs RuleSet) Validate() error {
	for _, d := range contracts.Dimensions {
		for _, h := range contracts.Horizons {
			rules, ok := rs[Key{Dimension: d, Horizon: h}]
			if !ok {
				return ValidationError{fmt.Sprintf("%s.%s", d, h), "table missing"}
			}
			for _, r := range rules {
				if err := r.Validate(); err != nil {
					return fmt.Errorf("%s.%s: %w", d, h, err)
				}
			}
		}
	}
	return nil
}

// ValidationError 규칙 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
