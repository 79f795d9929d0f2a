package profiling

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for range 3 {
		stop := Track("test.accumulate")
		time.Sleep(time.Millisecond)
		stop()
	}

	snap := Snapshot()
	assert.GreaterOrEqual(t, snap["test.accumulate"], 3*time.Millisecond)
	assert.Equal(t, 3, Count("test.accumulate"))

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Zero(t, Count("test.accumulate"))
}

func TestTopNOrdering(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 1500 * time.Microsecond
	frameTotals["b"] = 4 * time.Millisecond
	frameTotals["c"] = 200 * time.Microsecond
	mu.Unlock()
	defer ResetFrame()

	assert.Equal(t, "b:4ms, a:1.5ms", TopN(2))
	assert.Equal(t, "b:4ms, a:1.5ms, c:0.2ms", TopN(10))
	assert.Equal(t, "", TopN(0))
}

func TestHistogramExported(t *testing.T) {
	Track("test.histogram")()

	families, err := Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "voxelworld_operation_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "op" && lp.GetValue() == "test.histogram" {
					found = true
					assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
				}
			}
		}
	}
	assert.True(t, found, "histogram sample for test.histogram not gathered")
}

func TestHandlerServesMetrics(t *testing.T) {
	Track("test.handler")()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `voxelworld_operation_duration_seconds_count{op="test.handler"}`))
}
