package transit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astro/internal/contracts"
	"github.com/wonny/astro/pkg/config"
	"github.com/wonny/astro/pkg/database"
)

func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, db.Migrate(ctx))

	repo := NewRepository(db.Pool)
	chartID := uuid.New()
	defer func() { _, _ = repo.DeleteChart(context.Background(), chartID) }()

	sun := contracts.BodyPoint(contracts.Sun)
	events := []contracts.TransitEvent{
		{Body: contracts.Saturn, Aspect: contracts.Conjunction, Point: sun, Date: date(2026, 4, 10), Orb: 0.1, Significance: 16},
		{Body: contracts.Pluto, Aspect: contracts.Square, Point: contracts.Ascendant, Date: date(2026, 6, 1), Orb: 1.2, Significance: 19},
	}
	require.NoError(t, repo.SaveEvents(ctx, chartID, events))
	require.NoError(t, repo.SaveEvents(ctx, chartID, events), "save must be idempotent")

	got, err := repo.GetEventsByRange(ctx, chartID, date(2026, 1, 1), date(2026, 12, 31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, contracts.Saturn, got[0].Body)
	assert.Equal(t, 19, got[1].Significance)

	n, err := repo.DeleteChart(ctx, chartID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
