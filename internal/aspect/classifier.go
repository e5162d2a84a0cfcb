package aspect

import (
	"fmt"
	"math"

	"github.com/wonny/astro/internal/contracts"
)

// DefaultOrb 기본 orb (모든 타입 ±8°)
const DefaultOrb = 8.0

// OrbTable holds the per-type orb tolerance in degrees
type OrbTable map[contracts.AspectType]float64

// DefaultOrbs returns the default table: ±8° for every type
func DefaultOrbs() OrbTable {
	return UniformOrbs(DefaultOrb)
}

// UniformOrbs returns a table with the same orb for every type
func UniformOrbs(orb float64) OrbTable {
	t := make(OrbTable, len(contracts.AspectTypes))
	for _, a := range contracts.AspectTypes {
		t[a] = orb
	}
	return t
}

// Validate rejects negative orbs and tables where two aspect windows overlap,
// i.e. where a single separation could match two types
func (t OrbTable) Validate() error {
	for _, a := range contracts.AspectTypes {
		orb, ok := t[a]
		if !ok {
			return fmt.Errorf("%w: missing orb for %s", contracts.ErrInvalidInput, a)
		}
		if orb < 0 || math.IsNaN(orb) {
			return fmt.Errorf("%w: orb for %s must be >= 0, got %v", contracts.ErrInvalidInput, a, orb)
		}
	}

	// 인접한 타입끼리만 겹칠 수 있음 (각도 오름차순)
	for i := 1; i < len(contracts.AspectTypes); i++ {
		prev, cur := contracts.AspectTypes[i-1], contracts.AspectTypes[i]
		gap := cur.Angle() - prev.Angle()
		if t[prev]+t[cur] >= gap {
			return fmt.Errorf("%w: %s (±%v) and %s (±%v) windows overlap",
				contracts.ErrInvalidInput, prev, t[prev], cur, t[cur])
		}
	}
	return nil
}

// Classifier matches separations against the five aspect types
type Classifier struct {
	orbs OrbTable
}

// NewClassifier creates a classifier with the default orbs
func NewClassifier() *Classifier {
	return &Classifier{orbs: DefaultOrbs()}
}

// NewClassifierWithOrbs creates a classifier with a validated custom orb table
func NewClassifierWithOrbs(orbs OrbTable) (*Classifier, error) {
	if err := orbs.Validate(); err != nil {
		return nil, err
	}
	cp := make(OrbTable, len(orbs))
	for k, v := range orbs {
		cp[k] = v
	}
	return &Classifier{orbs: cp}, nil
}

// Orb returns the configured orb for an aspect type
func (c *Classifier) Orb(a contracts.AspectType) float64 {
	return c.orbs[a]
}

// Classify checks the separation against each type in priority order using
// the per-type orbs. ok=false is the normal "no aspect" outcome.
func (c *Classifier) Classify(separation float64) (contracts.Aspect, bool) {
	return classify(separation, func(a contracts.AspectType) float64 { return c.orbs[a] })
}

// ClassifyWithOrb is Classify with one caller-supplied orb for every type
func (c *Classifier) ClassifyWithOrb(separation, orb float64) (contracts.Aspect, bool) {
	return classify(separation, func(contracts.AspectType) float64 { return orb })
}

// Between classifies the aspect formed by two longitudes
func (c *Classifier) Between(a, b float64) (contracts.Aspect, bool) {
	return c.Classify(Separation(a, b))
}

func classify(separation float64, orbOf func(contracts.AspectType) float64) (contracts.Aspect, bool) {
	// 범위 밖 입력은 [0,180]으로 접음
	sep := Separation(separation, 0)
	for _, a := range contracts.AspectTypes {
		exact := math.Abs(sep - a.Angle())
		if exact <= orbOf(a) {
			return contracts.Aspect{Type: a, Orb: exact}, true
		}
	}
	return contracts.Aspect{}, false
}
