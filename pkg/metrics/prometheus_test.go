package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordRequest("success")
	r.RecordRequest("success")
	r.RecordError("AcquisitionFailed")
	r.RecordSignal("AI", "BUY")
	r.RecordStage("Acquiring", 2.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("AcquisitionFailed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signals.WithLabelValues("AI", "BUY")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stage))
}
