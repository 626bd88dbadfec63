package entity

import (
	"time"

	"github.com/google/uuid"
)

type AccessReason string

const (
	AccessReasonOwnCollege       AccessReason = "own_college"
	AccessReasonPaidSubscription AccessReason = "paid_subscription"
)

type ActivePlan struct {
	PlanName string
	EndsAt   time.Time
}

// CollegeAccess is the accessibility resolver's output: the set of colleges
// whose projects a user may see, and why.
type CollegeAccess struct {
	OwnCollegeId              uuid.UUID
	CollegeIds                []uuid.UUID
	HasActivePaidSubscription bool
	ActivePlans               []ActivePlan

	// PlanByCollege names the plan that granted each subscribed college,
	// so responses can report which plan unlocked a project.
	PlanByCollege map[uuid.UUID]string
}

func (a *CollegeAccess) Grants(collegeId uuid.UUID) bool {
	for _, id := range a.CollegeIds {
		if id == collegeId {
			return true
		}
	}
	return false
}

// ReasonFor reports how access to the given college was obtained. The own
// college always wins over a subscription covering the same college.
func (a *CollegeAccess) ReasonFor(collegeId uuid.UUID) AccessReason {
	if collegeId == a.OwnCollegeId {
		return AccessReasonOwnCollege
	}
	return AccessReasonPaidSubscription
}
