// Package dispatch implements the assignment decision logic: deriving
// per-day employee workload and availability, deriving dealership load,
// recommending the best employee for a service, and enforcing the per-day
// assignment cap. All functions are pure and operate on in-memory snapshots
// supplied by the caller; persistence and refresh timing stay with the
// caller.
package dispatch

import (
	"github.com/glossworks/detailing/internal/detailing/models"
	"github.com/google/uuid"
)

// Availability classifies how much more work an employee can take on a day.
type Availability string

const (
	Available   Availability = "available"
	Busy        Availability = "busy"
	Unavailable Availability = "unavailable"
)

const (
	// MaxDailyAssignments is the cap on simultaneous non-cancelled
	// assignments per employee per day.
	MaxDailyAssignments = 5
	// BusyThreshold is the workload at which an employee counts as busy.
	BusyThreshold = 3
	// DealershipDailyCapacity is how many services a dealership is assumed
	// to handle per day. Informational only; creation is never blocked on
	// it.
	DealershipDailyCapacity = 10
)

// EmployeeState is an employee annotated with the derived per-day fields.
// The derived fields are recomputed on every snapshot and never persisted.
type EmployeeState struct {
	models.Employee
	// Workload is the count of the employee's non-cancelled assignments on
	// the snapshot date.
	Workload int
	// Availability is derived from Workload via fixed thresholds.
	Availability Availability
}

// DealershipState is a dealership annotated with the derived per-day load.
type DealershipState struct {
	models.Dealership
	// PendingServices is the count of non-cancelled assignments at the
	// dealership on the snapshot date.
	PendingServices int
	// ServiceCapacity is the assumed per-day capacity.
	ServiceCapacity int
}

// ClassifyWorkload maps a workload count to an availability tier.
func ClassifyWorkload(workload int) Availability {
	switch {
	case workload >= MaxDailyAssignments:
		return Unavailable
	case workload >= BusyThreshold:
		return Busy
	default:
		return Available
	}
}

// DeriveEmployeeStates annotates every employee with its workload and
// availability for the day the assignments snapshot was taken on.
// Assignments referencing employees outside the list contribute nothing;
// employees with no assignments come back with a zero workload, available.
func DeriveEmployeeStates(employees []models.Employee, assignments []models.Assignment) []EmployeeState {
	counts := make(map[uuid.UUID]int, len(employees))
	for i := range assignments {
		if assignments[i].Active() {
			counts[assignments[i].EmployeeID]++
		}
	}

	states := make([]EmployeeState, len(employees))
	for i, emp := range employees {
		workload := counts[emp.ID]
		states[i] = EmployeeState{
			Employee:     emp,
			Workload:     workload,
			Availability: ClassifyWorkload(workload),
		}
	}
	return states
}

// DeriveDealershipStates annotates every dealership with its pending
// service count for the day the assignments snapshot was taken on.
func DeriveDealershipStates(dealerships []models.Dealership, assignments []models.Assignment) []DealershipState {
	counts := make(map[uuid.UUID]int, len(dealerships))
	for i := range assignments {
		if assignments[i].Active() {
			counts[assignments[i].DealershipID]++
		}
	}

	states := make([]DealershipState, len(dealerships))
	for i, d := range dealerships {
		states[i] = DealershipState{
			Dealership:      d,
			PendingServices: counts[d.ID],
			ServiceCapacity: DealershipDailyCapacity,
		}
	}
	return states
}
