package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/astro/internal/aspect"
	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/internal/natal"
	"github.com/wonny/astro/pkg/logger"
)

// Aggregator turns natal placements and transits into a ScoreSet.
// One evaluation engine drives every (dimension, horizon) table.
type Aggregator struct {
	provider   contracts.EphemerisProvider
	rules      RuleSet
	classifier *aspect.Classifier
	logger     *logger.Logger
}

// NewAggregator creates an aggregator; rules must already be validated
func NewAggregator(provider contracts.EphemerisProvider, rules RuleSet, log *logger.Logger) *Aggregator {
	return &Aggregator{
		provider:   provider,
		rules:      rules,
		classifier: aspect.NewClassifier(),
		logger:     log.Component("scoring.aggregator"),
	}
}

// Compute returns the four scores of chart for horizon h at date.
// Transits are read at the period anchor, so every date of one period
// yields the same scores. Unavailable positions make their rules
// contribute zero. Only ctx cancellation is an error.
func (a *Aggregator) Compute(ctx context.Context, chart *natal.Chart, h contracts.Horizon, date time.Time) (contracts.ScoreSet, error) {
	if !h.Valid() {
		return contracts.ScoreSet{}, fmt.Errorf("%w: unknown horizon %q", contracts.ErrInvalidInput, h)
	}

	transits, err := a.transitLongitudes(ctx, h, h.Anchor(date))
	if err != nil {
		return contracts.ScoreSet{}, err
	}

	set := contracts.ScoreSet{Horizon: h, ReferenceDate: date}
	for _, d := range contracts.Dimensions {
		sum := 0.0
		for _, r := range a.rules.Rules(d, h) {
			sum += a.evaluate(r, chart, transits)
		}
		score := Clamp(math.Round(ScoreBaseline + sum + float64(Personalization(chart, d, h, date))))
		set = set.Set(d, score)
	}

	return set, nil
}

// ScoreBaseline starting point before rules
const ScoreBaseline = float64(contracts.ScoreBaseline)

// Clamp bounds a raw score to [ScoreMin, ScoreMax]
func Clamp(v float64) int {
	switch {
	case math.IsNaN(v):
		return contracts.ScoreBaseline
	case v < contracts.ScoreMin:
		return contracts.ScoreMin
	case v > contracts.ScoreMax:
		return contracts.ScoreMax
	default:
		return int(v)
	}
}

// evaluate returns one rule's signed delta:
// weight × multiplier(nature, aspect) × (1 − orb/ruleOrb)
func (a *Aggregator) evaluate(r Rule, chart *natal.Chart, transits map[contracts.Body]float64) float64 {
	to, ok := chart.Longitude(r.To)
	if !ok {
		return 0
	}

	var from float64
	switch r.Kind {
	case KindTransit:
		b, _ := r.From.Body()
		if from, ok = transits[b]; !ok {
			return 0
		}
	case KindNatal:
		if from, ok = chart.Longitude(r.From); !ok {
			return 0
		}
	default:
		return 0
	}

	match, ok := a.classifier.ClassifyWithOrb(aspect.Separation(from, to), r.Orb)
	if !ok {
		return 0
	}
	return r.Weight * Multiplier(r.Nature, match.Type) * (1 - match.Orb/r.Orb)
}

// transitLongitudes fetches the horizon's transiting bodies at the anchor.
// Unavailable bodies are left out.
func (a *Aggregator) transitLongitudes(ctx context.Context, h contracts.Horizon, anchor time.Time) (map[contracts.Body]float64, error) {
	bodies := a.rules.TransitBodies(h)
	out := make(map[contracts.Body]float64, len(bodies))

	for _, b := range bodies {
		pos, err := a.provider.PositionOf(ctx, b, anchor)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.logger.WithFields(map[string]interface{}{
				"body":   b,
				"anchor": anchor.Format(time.RFC3339),
			}).WithError(err).Warn("Transit position unavailable, rules skipped")
			continue
		}
		out[b] = aspect.Normalize(pos.Longitude)
	}
	return out, nil
}
