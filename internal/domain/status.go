package domain

// Status is one of the enumerated task lifecycle labels.
type Status string

// Recognized task statuses. StatusWaiting is the default at creation; the
// remaining values are used by request validation.
const (
	StatusWaiting    Status = "Waiting"
	StatusInProgress Status = "In progress"
	StatusDone       Status = "Done"
)

// KnownStatuses lists every recognized status value.
func KnownStatuses() []Status {
	return []Status{StatusWaiting, StatusInProgress, StatusDone}
}

// IsRecognizedStatus reports whether s is one of the recognized status values.
func IsRecognizedStatus(s string) bool {
	switch Status(s) {
	case StatusWaiting, StatusInProgress, StatusDone:
		return true
	}
	return false
}
