package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistryWritesTotalIncrementsPerVariant(t *testing.T) {
	before := testutil.ToFloat64(RegistryWritesTotal.WithLabelValues("usage"))
	RegistryWritesTotal.WithLabelValues("usage").Inc()
	after := testutil.ToFloat64(RegistryWritesTotal.WithLabelValues("usage"))
	assert.Equal(t, before+1, after)
}

func TestSimilarityDurationAndPageRankIterationsAreRegistered(t *testing.T) {
	SimilarityDuration.Observe(0.01)
	PageRankIterations.Observe(5)
}
