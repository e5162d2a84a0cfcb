package contracts

import (
	"fmt"
	"strings"
	"time"
)

// Horizon 점수 적용 기간
type Horizon string

const (
	HorizonDay   Horizon = "day"
	HorizonWeek  Horizon = "week"
	HorizonMonth Horizon = "month"
	HorizonYear  Horizon = "year"
)

// Horizons lists every horizon, shortest first
var Horizons = []Horizon{HorizonDay, HorizonWeek, HorizonMonth, HorizonYear}

// Valid reports whether h is a known horizon
func (h Horizon) Valid() bool {
	switch h {
	case HorizonDay, HorizonWeek, HorizonMonth, HorizonYear:
		return true
	}
	return false
}

// ParseHorizon resolves a case-insensitive horizon name
func ParseHorizon(s string) (Horizon, error) {
	h := Horizon(strings.ToLower(strings.TrimSpace(s)))
	if !h.Valid() {
		return "", fmt.Errorf("%w: unknown horizon %q", ErrInvalidInput, s)
	}
	return h, nil
}

// PeriodKey returns the calendar period t falls in:
// day "2006-01-02", week "2006-W01" (ISO), month "2006-01", year "2006"
func (h Horizon) PeriodKey(t time.Time) string {
	switch h {
	case HorizonDay:
		return t.Format("2006-01-02")
	case HorizonWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case HorizonMonth:
		return t.Format("2006-01")
	case HorizonYear:
		return t.Format("2006")
	default:
		return ""
	}
}

// PeriodIndex returns the small integer identifying t's period inside its year
// (day-of-year, ISO week, month, or the year itself)
func (h Horizon) PeriodIndex(t time.Time) int {
	switch h {
	case HorizonDay:
		return t.YearDay()
	case HorizonWeek:
		_, w := t.ISOWeek()
		return w
	case HorizonMonth:
		return int(t.Month())
	case HorizonYear:
		return t.Year()
	default:
		return 0
	}
}

// Anchor returns the fixed instant transits are read at for t's period.
// Every date inside one period maps to the same anchor.
func (h Horizon) Anchor(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch h {
	case HorizonWeek:
		// ISO 주의 목요일 정오
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return time.Date(y, m, d+(4-wd), 12, 0, 0, 0, loc)
	case HorizonMonth:
		return time.Date(y, m, 15, 12, 0, 0, 0, loc)
	case HorizonYear:
		return time.Date(y, time.July, 1, 12, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 12, 0, 0, 0, loc)
	}
}

// PeriodEnd returns the first instant after t's period
func (h Horizon) PeriodEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch h {
	case HorizonWeek:
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return time.Date(y, m, d+(8-wd), 0, 0, 0, 0, loc)
	case HorizonMonth:
		return time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	case HorizonYear:
		return time.Date(y+1, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
}

// Dimension 점수 차원
type Dimension string

const (
	DimensionOverall Dimension = "overall"
	DimensionLove    Dimension = "love"
	DimensionCareer  Dimension = "career"
	DimensionWealth  Dimension = "wealth"
)

// Dimensions lists every score dimension
var Dimensions = []Dimension{DimensionOverall, DimensionLove, DimensionCareer, DimensionWealth}

// Valid reports whether d is a known dimension
func (d Dimension) Valid() bool {
	switch d {
	case DimensionOverall, DimensionLove, DimensionCareer, DimensionWealth:
		return true
	}
	return false
}

// Score bounds
const (
	ScoreMin      = 5
	ScoreMax      = 95
	ScoreBaseline = 50
)

// ScoreSet four bounded scores for one horizon and reference date.
// Superseded, never mutated.
type ScoreSet struct {
	Overall       int       `json:"overall"`
	Love          int       `json:"love"`
	Career        int       `json:"career"`
	Wealth        int       `json:"wealth"`
	Horizon       Horizon   `json:"horizon"`
	ReferenceDate time.Time `json:"reference_date"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Get returns the score of one dimension
func (s ScoreSet) Get(d Dimension) int {
	switch d {
	case DimensionOverall:
		return s.Overall
	case DimensionLove:
		return s.Love
	case DimensionCareer:
		return s.Career
	case DimensionWealth:
		return s.Wealth
	default:
		return 0
	}
}

// Set returns a copy with the dimension's score replaced
func (s ScoreSet) Set(d Dimension, v int) ScoreSet {
	switch d {
	case DimensionOverall:
		s.Overall = v
	case DimensionLove:
		s.Love = v
	case DimensionCareer:
		s.Career = v
	case DimensionWealth:
		s.Wealth = v
	}
	return s
}
