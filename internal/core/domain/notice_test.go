package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func notices(statuses ...string) []Notice {
	out := make([]Notice, len(statuses))
	for i, s := range statuses {
		out[i] = Notice{CheckinID: "chk-1", Status: s}
	}
	return out
}

func servPairs(n int) []Notice {
	var out []Notice
	for i := 0; i < n; i++ {
		out = append(out, Notice{Status: ServiceStatusBegin}, Notice{Status: ServiceStatusEnd})
	}
	return out
}

func TestAggregateErrorLevel_ErrorTakesPrecedence(t *testing.T) {
	ns := append(servPairs(ServiceStatusMaxStages), notices("Error")...)
	assert.Equal(t, ErrorLevelError, AggregateErrorLevel(ns))

	// case-insensitive comparison
	assert.Equal(t, ErrorLevelError, AggregateErrorLevel(notices("ERROR")))
	assert.Equal(t, ErrorLevelError, AggregateErrorLevel(notices("warning", "error")))
}

func TestAggregateErrorLevel_Warning(t *testing.T) {
	assert.Equal(t, ErrorLevelWarning, AggregateErrorLevel(notices("WaRnInG")))
	ns := append(servPairs(ServiceStatusMaxStages), notices("warning")...)
	assert.Equal(t, ErrorLevelWarning, AggregateErrorLevel(ns))
}

func TestAggregateErrorLevel_NoNoticesIsOK(t *testing.T) {
	assert.Equal(t, ErrorLevelOK, AggregateErrorLevel(nil))
	assert.Equal(t, ErrorLevelOK, AggregateErrorLevel([]Notice{}))
}

func TestAggregateErrorLevel_CompletedStagesIsOK(t *testing.T) {
	ns := servPairs(ServiceStatusMaxStages)
	assert.True(t, ServiceStatusCompleted(ns))
	assert.Equal(t, ErrorLevelOK, AggregateErrorLevel(ns))
}

func TestAggregateErrorLevel_IncompleteStagesIsInProgress(t *testing.T) {
	// one fewer pair than the required stage count
	ns := servPairs(ServiceStatusMaxStages - 1)
	assert.False(t, ServiceStatusCompleted(ns))
	assert.Equal(t, ErrorLevelInProgress, AggregateErrorLevel(ns))

	// a single unpaired begin marker
	assert.Equal(t, ErrorLevelInProgress, AggregateErrorLevel(notices(ServiceStatusBegin)))

	// enough end markers but no begins: unpaired, still incomplete
	var ends []string
	for i := 0; i < ServiceStatusMaxStages; i++ {
		ends = append(ends, ServiceStatusEnd)
	}
	assert.Equal(t, ErrorLevelInProgress, AggregateErrorLevel(notices(ends...)))

	// an extra unpaired marker on top of complete pairs breaks completeness
	ns = append(servPairs(ServiceStatusMaxStages), Notice{Status: ServiceStatusBegin})
	assert.Equal(t, ErrorLevelInProgress, AggregateErrorLevel(ns))
}

func TestIsServiceStatus(t *testing.T) {
	assert.True(t, Notice{Status: "SERV_BEGIN"}.IsServiceStatus())
	assert.True(t, Notice{Status: "serv_end"}.IsServiceStatus())
	assert.True(t, Notice{Status: "Serv_Checkpoint"}.IsServiceStatus())
	assert.False(t, Notice{Status: "error"}.IsServiceStatus())
	assert.False(t, Notice{Status: "served"}.IsServiceStatus())
}
