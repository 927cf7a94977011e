package domain

import (
	"strings"
	"time"
)

// ErrorLevel is the single worst-case severity derived from a checkin's
// notices. Precedence (not severity) order: error > warning > in progress > ok.
type ErrorLevel string

const (
	ErrorLevelOK         ErrorLevel = "ok"
	ErrorLevelInProgress ErrorLevel = "in progress"
	ErrorLevelWarning    ErrorLevel = "warning"
	ErrorLevelError      ErrorLevel = "error"
)

// Service status markers emitted by the external processing pipeline. Each
// monitored stage produces one SERV_BEGIN/SERV_END pair.
const (
	ServiceStatusBegin  = "SERV_BEGIN"
	ServiceStatusEnd    = "SERV_END"
	serviceStatusPrefix = "serv_"
)

// ServiceStatusMaxStages is the number of processing stages the external
// pipeline runs for every package. A checkin's processing is complete only
// when each stage has emitted a paired begin/end marker.
const ServiceStatusMaxStages = 10

// Notice is one diagnostic entry produced for a checkin by an external
// validation or processing step. Notices are append-only and read-only from
// the workflow engine's perspective.
type Notice struct {
	NoticeID   string    `json:"noticeID"`  // Primary Key (e.g., UUID)
	CheckinID  string    `json:"checkinID"` // FK -> checkins.checkin_id
	Stage      string    `json:"stage"`
	Checkpoint string    `json:"checkpoint"`
	Message    string    `json:"message"`
	Status     string    `json:"status"` // free-form, compared case-insensitively
	CreatedAt  time.Time `json:"createdAt"`
}

// IsServiceStatus reports whether the notice is a processing-stage marker
// rather than a user-facing diagnostic.
func (n Notice) IsServiceStatus() bool {
	return strings.HasPrefix(strings.ToLower(n.Status), serviceStatusPrefix)
}

// ServiceStatusCompleted reports whether every processing stage emitted a
// properly paired SERV_BEGIN/SERV_END marker: equal begin and end counts, at
// least ServiceStatusMaxStages pairs.
func ServiceStatusCompleted(notices []Notice) bool {
	var begins, ends int
	for _, n := range notices {
		switch {
		case strings.EqualFold(n.Status, ServiceStatusBegin):
			begins++
		case strings.EqualFold(n.Status, ServiceStatusEnd):
			ends++
		}
	}
	return begins == ends && begins >= ServiceStatusMaxStages
}

// AggregateErrorLevel reduces a checkin's notices to a single severity
// signal. Error and warning notices take absolute precedence; otherwise the
// level reflects processing completeness. A checkin with no notices, or with
// complete service markers, is "ok".
func AggregateErrorLevel(notices []Notice) ErrorLevel {
	var hasWarning bool
	for _, n := range notices {
		if strings.EqualFold(n.Status, string(ErrorLevelError)) {
			return ErrorLevelError
		}
		if strings.EqualFold(n.Status, string(ErrorLevelWarning)) {
			hasWarning = true
		}
	}
	if hasWarning {
		return ErrorLevelWarning
	}
	if len(notices) > 0 && !ServiceStatusCompleted(notices) {
		return ErrorLevelInProgress
	}
	return ErrorLevelOK
}
