// internal/app/system/reqstatus/reqstatus.go

// Package reqstatus owns the maintenance-request lifecycle: the
// bidirectional mapping between the four display labels and the four
// numeric codes the backend stores, and the transition rules an
// operator must respect.
//
// The mapping is total over its four-element domain and never guesses:
// an unknown label or code is a contract violation and comes back as
// ErrUnknownStatus, because writing an unmapped code through the store
// would corrupt request state for every other console.
package reqstatus

import "errors"

// Status is the backend's numeric lifecycle code.
type Status int

// Lifecycle codes, in the order the backend defined them.
const (
	Sent       Status = 0
	Processing Status = 1
	Resolved   Status = 2
	Cancelled  Status = 3
)

// Display labels shown throughout the console.
const (
	LabelSent       = "Đã gửi"
	LabelProcessing = "Đang xử lý"
	LabelResolved   = "Đã xử lý"
	LabelCancelled  = "Đã hủy"
)

// ErrUnknownStatus reports a label or code outside the known set.
var ErrUnknownStatus = errors.New("unknown request status")

var labelByCode = map[Status]string{
	Sent:       LabelSent,
	Processing: LabelProcessing,
	Resolved:   LabelResolved,
	Cancelled:  LabelCancelled,
}

var codeByLabel = map[string]Status{
	LabelSent:       Sent,
	LabelProcessing: Processing,
	LabelResolved:   Resolved,
	LabelCancelled:  Cancelled,
}

// CodeOf returns the numeric code for a display label.
func CodeOf(label string) (Status, error) {
	code, ok := codeByLabel[label]
	if !ok {
		return 0, ErrUnknownStatus
	}
	return code, nil
}

// LabelOf returns the display label for a numeric code.
func LabelOf(code Status) (string, error) {
	label, ok := labelByCode[code]
	if !ok {
		return "", ErrUnknownStatus
	}
	return label, nil
}

// Label is LabelOf for display paths that cannot fail usefully; codes
// outside the domain render as an empty string.
func Label(code Status) string {
	label, _ := LabelOf(code)
	return label
}

// CanTransition reports whether an operator may move a request from
// one state to another. The relation is closed: Sent→Processing,
// Sent→Cancelled, Processing→Resolved, Processing→Cancelled, and
// nothing else — no self-transitions, and Resolved/Cancelled are
// terminal. Handlers re-check this server-side regardless of which
// actions the page offered.
func CanTransition(from, to Status) bool {
	switch from {
	case Sent:
		return to == Processing || to == Cancelled
	case Processing:
		return to == Resolved || to == Cancelled
	default:
		return false
	}
}

// NextStates lists the states an operator may move a request into,
// in menu order. Terminal states return nil.
func NextStates(from Status) []Status {
	switch from {
	case Sent:
		return []Status{Processing, Cancelled}
	case Processing:
		return []Status{Resolved, Cancelled}
	default:
		return nil
	}
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(s Status) bool {
	return s == Resolved || s == Cancelled
}
