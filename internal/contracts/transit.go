package contracts

import "time"

// Target is a fixed natal point a transiting body is compared against
type Target struct {
	Point     Point   `json:"point"`
	Longitude float64 `json:"longitude"`
}

// TransitEvent 감지된 트랜짓 이벤트
type TransitEvent struct {
	Body         Body       `json:"body"`
	Aspect       AspectType `json:"aspect"`
	Point        Point      `json:"point"`
	Date         time.Time  `json:"date"`
	Orb          float64    `json:"orb"`          // 이벤트 시점의 정확한 orb
	Significance int        `json:"significance"` // body + target + aspect weight
}

// PairKey identifies the (body, point) pair used for dedup and uniqueness
type PairKey struct {
	Body  Body
	Point Point
}

// Pair returns the event's (body, point) key
func (e TransitEvent) Pair() PairKey {
	return PairKey{Body: e.Body, Point: e.Point}
}
