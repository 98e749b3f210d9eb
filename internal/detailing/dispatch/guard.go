package dispatch

// ReasonCapacityExceeded explains a Decision that rejects creation.
const ReasonCapacityExceeded = "capacity_exceeded"

// Decision is the outcome of the capacity guard: proceed, or reject with a
// reason the caller can present verbatim.
type Decision struct {
	Allowed bool
	Reason  string
}

// CanCreateAssignment decides whether one more assignment may be created
// for an employee whose current non-cancelled count for the day is
// workload. The check runs against a snapshot before persistence; the
// persistence layer provides no stronger guarantee.
func CanCreateAssignment(workload int) Decision {
	if workload >= MaxDailyAssignments {
		return Decision{Reason: ReasonCapacityExceeded}
	}
	return Decision{Allowed: true}
}
