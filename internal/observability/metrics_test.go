package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("propose_time", 20*time.Millisecond, nil)
	m.RecordRequest("propose_time", 40*time.Millisecond, errors.New("boom"))
	m.RecordRequest("suggest", 5*time.Millisecond, nil)
	m.RecordConflict()
	m.RecordNotification()

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.RequestTotal)
	assert.Equal(t, int64(1), snap.RequestFailed)
	assert.Equal(t, int64(1), snap.Conflicts)
	assert.Equal(t, int64(1), snap.Notifications)
	assert.Equal(t, []string{"propose_time", "suggest"}, snap.OperationNames())

	op := snap.Operations["propose_time"]
	assert.Equal(t, int64(2), op.ExecutionCount)
	assert.Equal(t, int64(1), op.ErrorCount)
	assert.Equal(t, int64(30), op.AverageDuration)
	assert.InDelta(t, 66.67, snap.SuccessRate(), 0.01)

	m.Reset()
	assert.Equal(t, 100.0, m.Snapshot().SuccessRate())
	assert.Empty(t, m.Snapshot().Operations)
}
