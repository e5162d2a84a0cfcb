package transit

import "github.com/wonny/astro/internal/contracts"

// BodyWeight 느린 외행성일수록 가중치가 큼
func BodyWeight(b contracts.Body) int {
	switch b {
	case contracts.Pluto:
		return 10
	case contracts.Neptune, contracts.Uranus:
		return 8
	case contracts.Saturn:
		return 6
	case contracts.Jupiter:
		return 5
	default:
		return 2
	}
}

// TargetWeight luminaries and the ascendant outrank secondary points
func TargetWeight(p contracts.Point) int {
	switch p {
	case contracts.BodyPoint(contracts.Sun), contracts.BodyPoint(contracts.Moon), contracts.Ascendant:
		return 5
	case contracts.Midheaven:
		return 3
	default:
		return 2
	}
}

// AspectWeight hard aspects outrank soft ones
func AspectWeight(a contracts.AspectType) int {
	switch a {
	case contracts.Conjunction, contracts.Opposition:
		return 5
	case contracts.Square:
		return 4
	case contracts.Trine, contracts.Sextile:
		return 3
	default:
		return 0
	}
}

// Significance is the sum of body, target and aspect weights
func Significance(b contracts.Body, p contracts.Point, a contracts.AspectType) int {
	return BodyWeight(b) + TargetWeight(p) + AspectWeight(a)
}
