package contracts

import (
	"fmt"
	"strconv"
	"strings"
)

// Body identifies one of the ten bodies tracked in a chart
type Body string

const (
	Sun     Body = "sun"
	Moon    Body = "moon"
	Mercury Body = "mercury"
	Venus   Body = "venus"
	Mars    Body = "mars"
	Jupiter Body = "jupiter"
	Saturn  Body = "saturn"
	Uranus  Body = "uranus"
	Neptune Body = "neptune"
	Pluto   Body = "pluto"
)

// Bodies lists every body in chart order
// ⭐ SSOT: 천체 순서는 여기서만 정의
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// Index returns the chart slot of the body, or -1 if unknown
func (b Body) Index() int {
	for i, known := range Bodies {
		if known == b {
			return i
		}
	}
	return -1
}

// Valid reports whether b is one of the ten known bodies
func (b Body) Valid() bool {
	return b.Index() >= 0
}

// ParseBody resolves a case-insensitive body name
func ParseBody(s string) (Body, error) {
	b := Body(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("%w: unknown body %q", ErrInvalidInput, s)
	}
	return b, nil
}

// Point identifies a natal point: a body, an angle or a house cusp
type Point string

const (
	Ascendant Point = "ascendant"
	Midheaven Point = "midheaven"
)

// BodyPoint converts a body to its natal point identifier
func BodyPoint(b Body) Point {
	return Point(b)
}

// HousePoint returns the point identifier for house cusp n (1-12)
func HousePoint(n int) Point {
	return Point("house" + strconv.Itoa(n))
}

// Body returns the body behind a point, if the point is a body
func (p Point) Body() (Body, bool) {
	b := Body(p)
	return b, b.Valid()
}

// House returns the house number behind a point, if the point is a cusp
func (p Point) House() (int, bool) {
	s := string(p)
	if !strings.HasPrefix(s, "house") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "house"))
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

// Valid reports whether p names a known point
func (p Point) Valid() bool {
	if p == Ascendant || p == Midheaven {
		return true
	}
	if _, ok := p.Body(); ok {
		return true
	}
	_, ok := p.House()
	return ok
}

// ParsePoint resolves a case-insensitive point name
// (sun..pluto, ascendant, midheaven, house1..house12)
func ParsePoint(s string) (Point, error) {
	p := Point(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "asc":
		p = Ascendant
	case "mc":
		p = Midheaven
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown point %q", ErrInvalidInput, s)
	}
	return p, nil
}
