package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCounts(t *testing.T) {
	r := New()
	r.Lookup("type")
	r.Lookup("type")
	r.Lookup("method")
	r.Problem("NotFound")
	r.Completion("hierarchy")
	r.Candidates(3)

	assert.InDelta(t, 2, testutil.ToFloat64(r.lookups.WithLabelValues("type")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.problems.WithLabelValues("NotFound")), 0)

	counts, err := r.Counts()
	require.NoError(t, err)
	assert.InDelta(t, 1, counts["jbind_resolve_lookups_total/method"], 0)
	assert.InDelta(t, 1, counts["jbind_env_completions_total/hierarchy"], 0)
	assert.InDelta(t, 1, counts["jbind_overload_candidates/count"], 0)
}

func TestWriteText(t *testing.T) {
	r := New()
	r.Problem("Ambiguous")
	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `jbind_resolve_problems_total{reason="Ambiguous"} 1`)
}

func TestNopIsRecorder(t *testing.T) {
	var rec Recorder = Nop{}
	rec.Lookup("x")
	rec.Candidates(0)
}
