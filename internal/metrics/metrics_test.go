package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitMetrics(t *testing.T) {
	// Note: InitMetrics uses sync.Once, so it can only be called once per
	// test run. We test the behavior after initialization.
	InitMetrics()

	assert.True(t, IsRegistered())
	assert.NotNil(t, GetRequestsTotal())
	assert.NotNil(t, GetRequestDuration())
	assert.NotNil(t, GetTransportCacheTotal())
}

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := GetRequestsTotal()

	// A second call must not re-register (promauto would panic on
	// duplicate registration).
	InitMetrics()
	assert.Same(t, first, GetRequestsTotal())
}

func TestRecordRequest(t *testing.T) {
	InitMetrics()

	RecordRequest("success", 0.042)
	RecordRequest("ccp_error", 1.5)
	RecordRequest("timeout", 30.0)

	// Verify no panic and the collectors exist
	assert.NotNil(t, GetRequestsTotal())
	assert.NotNil(t, GetRequestDuration())
}

func TestRecordTransportCache(t *testing.T) {
	InitMetrics()

	RecordTransportCache("hit")
	RecordTransportCache("miss")

	counter := GetTransportCacheTotal()
	assert.NotNil(t, counter)
}
