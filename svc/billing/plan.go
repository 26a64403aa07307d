package billing

import (
	"time"

	"github.com/pedidoz/backoffice/pkg/clock"
	"github.com/pedidoz/backoffice/pkg/validator"
)

// DaysPerMonth is the length of one billing month.
const DaysPerMonth = 30

// OrganizationPlan is one interval [StartDate, EndDate) of an organization's plan timeline.
type OrganizationPlan struct {
	ID              string    `bson:"_id" json:"id"`
	OrganizationID  string    `bson:"organization_id" json:"organization_id"`
	PlanID          string    `bson:"plan_id" json:"plan_id"`
	StartDate       time.Time `bson:"start_date" json:"start_date"`
	EndDate         time.Time `bson:"end_date" json:"end_date"`
	AllowAdditional bool      `bson:"allow_additional" json:"allow_additional"`
	IsActive        bool      `bson:"is_active" json:"-"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// Validate requires ids and a non-empty period.
func (p OrganizationPlan) Validate() error {
	return validator.Apply(
		validator.Required("organization_id", p.OrganizationID),
		validator.Required("plan_id", p.PlanID),
		validator.After("end_date", p.EndDate, p.StartDate),
	)
}

// ActiveAt reports whether t falls inside the plan interval.
func (p OrganizationPlan) ActiveAt(t time.Time) bool {
	return p.IsActive && !t.Before(p.StartDate) && t.Before(p.EndDate)
}

// Overlaps reports whether the plan interval intersects [start, end).
func (p OrganizationPlan) Overlaps(start, end time.Time) bool {
	return p.IsActive && p.StartDate.Before(end) && p.EndDate.After(start)
}

// TotalDays is the whole number of days between start and end.
func (p OrganizationPlan) TotalDays() int {
	return clock.DaysBetween(p.StartDate, p.EndDate)
}

// RemainingDays counts whole days from today to the end of the plan, never negative.
func (p OrganizationPlan) RemainingDays(today time.Time) int {
	return max(clock.DaysBetween(today, p.EndDate), 0)
}

// PlanPeriod returns the interval of a plan starting on start's date and
// lasting months billing months.
func PlanPeriod(start time.Time, months int) (time.Time, time.Time) {
	from := clock.StartOfDay(start)
	return from, from.AddDate(0, 0, DaysPerMonth*max(months, 1))
}
