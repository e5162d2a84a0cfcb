package contracts

import (
	"fmt"
	"strings"
)

// AspectType 각도 관계 타입 (closed enumeration)
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
)

// AspectTypes lists aspect types in classification priority order
var AspectTypes = []AspectType{Conjunction, Sextile, Square, Trine, Opposition}

// Angle returns the exact target angle of the aspect in degrees
func (a AspectType) Angle() float64 {
	switch a {
	case Conjunction:
		return 0
	case Sextile:
		return 60
	case Square:
		return 90
	case Trine:
		return 120
	case Opposition:
		return 180
	default:
		return -1
	}
}

// Valid reports whether a is one of the five aspect types
func (a AspectType) Valid() bool {
	return a.Angle() >= 0
}

// ParseAspectType resolves a case-insensitive aspect name
func ParseAspectType(s string) (AspectType, error) {
	a := AspectType(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: unknown aspect %q", ErrInvalidInput, s)
	}
	return a, nil
}

// Aspect is a matched aspect with its exact orb (|separation - angle|)
type Aspect struct {
	Type AspectType `json:"type"`
	Orb  float64    `json:"orb"`
}
