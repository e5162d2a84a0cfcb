package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEphemerisLookup("http", true)
	c.RecordEphemerisLookup("http", false)
	c.RecordEphemerisLookup("http", false)
	c.RecordCacheHit("memory")
	c.RecordCacheMiss("redis")
	c.RecordScan("saturn", 20*time.Millisecond, 3)
	c.RecordSkippedSample("moon")
	c.RecordScoreComputed("week")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ephemerisLookups.WithLabelValues("http", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ephemerisLookups.WithLabelValues("http", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheHits.WithLabelValues("memory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheMisses.WithLabelValues("redis")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.scanEvents.WithLabelValues("saturn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.skippedSamples.WithLabelValues("moon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scoresComputed.WithLabelValues("week")))
}

func TestOrNop(t *testing.T) {
	assert.IsType(t, Nop{}, OrNop(nil))

	c := NewCollector(prometheus.NewRegistry())
	assert.Same(t, c, OrNop(c))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordCacheHit("memory")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "astro_cache_hits_total")
}
