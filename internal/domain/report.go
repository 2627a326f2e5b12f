package domain

// ReportState is the lifecycle of the single report request cell.
// Exactly one of ReportIdle, ReportPending, ReportSucceeded or ReportFailed.
type ReportState interface {
	reportState()
}

// ReportIdle means no request has been issued yet.
type ReportIdle struct{}

// ReportPending is the newest in-flight request.
type ReportPending struct {
	RequestID uint64
	Date      string
}

// ReportSucceeded holds the verbatim report body for Date.
type ReportSucceeded struct {
	Text string
	Date string
}

// ReportFailed holds a user-facing message for Date.
type ReportFailed struct {
	Message string
	Date    string
}

func (ReportIdle) reportState()      {}
func (ReportPending) reportState()   {}
func (ReportSucceeded) reportState() {}
func (ReportFailed) reportState()    {}

// ReportLabel returns a short name for logging.
func ReportLabel(s ReportState) string {
	switch s.(type) {
	case ReportIdle:
		return "idle"
	case ReportPending:
		return "pending"
	case ReportSucceeded:
		return "succeeded"
	case ReportFailed:
		return "failed"
	default:
		return "invalid"
	}
}
