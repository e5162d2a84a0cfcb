package transit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/astro/internal/contracts"
)

// Repository transit 이벤트 저장소 (astro.transit_events)
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository 새 저장소 생성
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveEvents upserts the events of one chart in a single batch
func (r *Repository) SaveEvents(ctx context.Context, chartID uuid.UUID, events []contracts.TransitEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO astro.transit_events
			(chart_id, body, aspect, point, event_date, orb, significance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (chart_id, body, point, aspect, event_date) DO UPDATE SET
			orb = EXCLUDED.orb,
			significance = EXCLUDED.significance`

	for _, e := range events {
		batch.Queue(query, chartID, string(e.Body), string(e.Aspect), string(e.Point),
			e.Date, e.Orb, e.Significance)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save transit events: %w", err)
		}
	}

	return nil
}

// GetEventsByRange 날짜 범위로 차트의 이벤트 조회
func (r *Repository) GetEventsByRange(ctx context.Context, chartID uuid.UUID, from, to time.Time) ([]contracts.TransitEvent, error) {
	query := `
		SELECT body, aspect, point, event_date, orb, significance
		FROM astro.transit_events
		WHERE chart_id = $1 AND event_date BETWEEN $2 AND $3
		ORDER BY event_date, significance DESC`

	rows, err := r.pool.Query(ctx, query, chartID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query transit events: %w", err)
	}
	defer rows.Close()

	events := []contracts.TransitEvent{}
	for rows.Next() {
		var e contracts.TransitEvent
		var body, asp, point string
		if err := rows.Scan(&body, &asp, &point, &e.Date, &e.Orb, &e.Significance); err != nil {
			return nil, fmt.Errorf("scan transit event: %w", err)
		}
		e.Body = contracts.Body(body)
		e.Aspect = contracts.AspectType(asp)
		e.Point = contracts.Point(point)
		events = append(events, e)
	}

	return events, rows.Err()
}

// DeleteChart removes every stored event of a chart
func (r *Repository) DeleteChart(ctx context.Context, chartID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM astro.transit_events WHERE chart_id = $1`, chartID)
	if err != nil {
		return 0, fmt.Errorf("delete transit events: %w", err)
	}
	return tag.RowsAffected(), nil
}
