package dispatch

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ReasonNoAvailableEmployees explains a MatchResult with no candidate.
const ReasonNoAvailableEmployees = "no available employees"

// MatchResult is the outcome of a best-match search. A search with no
// candidate is a routine business condition, not an error: Found is false
// and Reason explains why.
type MatchResult struct {
	EmployeeID uuid.UUID
	Found      bool
	Reason     string
}

// FindBestMatch selects the employee best suited to take on the named
// service, given the annotated snapshot for the day:
//
//  1. Unavailable employees are excluded. If nobody is left the result is
//     no-candidate.
//  2. Employees whose specialty matches the service name (case-insensitive
//     substring containment, either direction) are preferred, but only as a
//     soft restriction: with no specialist in reach the full set stays.
//  3. Candidates are ordered available-before-busy, then by ascending
//     workload. The sort is stable, so ties keep their input order.
//
// The caller owns snapshot ordering; with equal availability and workload
// the input order decides.
func FindBestMatch(employees []EmployeeState, serviceName string) MatchResult {
	candidates := make([]EmployeeState, 0, len(employees))
	for _, e := range employees {
		if e.Availability == Available || e.Availability == Busy {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return MatchResult{Reason: ReasonNoAvailableEmployees}
	}

	if specialists := filterSpecialists(candidates, serviceName); len(specialists) > 0 {
		candidates = specialists
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if (candidates[i].Availability == Available) != (candidates[j].Availability == Available) {
			return candidates[i].Availability == Available
		}
		return candidates[i].Workload < candidates[j].Workload
	})

	return MatchResult{EmployeeID: candidates[0].ID, Found: true}
}

// filterSpecialists keeps employees whose specialty and the service name
// contain one another, ignoring case. Employees without a specialty never
// match.
func filterSpecialists(employees []EmployeeState, serviceName string) []EmployeeState {
	service := strings.ToLower(strings.TrimSpace(serviceName))
	if service == "" {
		return nil
	}

	var specialists []EmployeeState
	for _, e := range employees {
		specialty := strings.ToLower(strings.TrimSpace(e.Specialty))
		if specialty == "" {
			continue
		}
		if strings.Contains(specialty, service) || strings.Contains(service, specialty) {
			specialists = append(specialists, e)
		}
	}
	return specialists
}
