package applications

import "jobportal/internal/errcode"

// 申请状态
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// transitions lists the allowed moves between distinct statuses.
// Setting the current status again is always allowed and changes nothing.
var transitions = map[string][]string{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusPending},
	StatusRejected: {StatusPending},
}

// ParseStatus accepts only the exact upper case status names.
func ParseStatus(s string) (string, error) {
	if _, ok := transitions[s]; !ok {
		return "", errcode.ErrInvalidStatus
	}
	return s, nil
}

func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
