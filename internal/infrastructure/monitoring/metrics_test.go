package monitoring

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	Engine.OperationsTotal.Reset()

	RecordOperation("project", "success")
	RecordOperation("project", "success")
	RecordOperation("schedule", "invalid")

	assert.Equal(t, 2.0, testutil.ToFloat64(Engine.OperationsTotal.WithLabelValues("project", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(Engine.OperationsTotal.WithLabelValues("schedule", "invalid")))
}

func TestRecordCacheLookup(t *testing.T) {
	Engine.CacheLookupTotal.Reset()

	RecordCacheLookup("hit")
	RecordCacheLookup("miss")
	RecordCacheLookup("miss")

	assert.Equal(t, 1.0, testutil.ToFloat64(Engine.CacheLookupTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(Engine.CacheLookupTotal.WithLabelValues("miss")))
}

func TestRecordScheduleLength(t *testing.T) {
	before := testutil.CollectAndCount(Engine.ScheduleLength)
	RecordScheduleLength(60)
	assert.Equal(t, before, testutil.CollectAndCount(Engine.ScheduleLength))
}
