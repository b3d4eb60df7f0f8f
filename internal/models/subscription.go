package models

// PlanStatus is the subscription plan lifecycle state.
type PlanStatus string

const (
	PlanActive   PlanStatus = "Active"
	PlanInactive PlanStatus = "Inactive"
	PlanArchived PlanStatus = "Archived"
)

// SubscriptionPlan is a platform-wide plan schools subscribe to. It has no
// tenant.
type SubscriptionPlan struct {
	Base
	Name         string     `json:"name" db:"name" validate:"required,max=120"`
	Description  *string    `json:"description" db:"description" validate:"omitempty,max=2000"`
	Price        float64    `json:"price" db:"price" validate:"gte=0"`
	BillingCycle string     `json:"billing_cycle" db:"billing_cycle" validate:"required,oneof=monthly yearly"`
	MaxStudents  *int       `json:"max_students" db:"max_students" validate:"omitempty,min=1"`
	Features     []string   `json:"features" db:"features"`
	Status       PlanStatus `json:"status" db:"status"`
}

func (p *SubscriptionPlan) Columns() []Column {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return []Column{
		{"name", p.Name},
		{"description", p.Description},
		{"price", p.Price},
		{"billing_cycle", p.BillingCycle},
		{"max_students", p.MaxStudents},
		{"features", features},
		{"status", string(p.Status)},
	}
}

func (p *SubscriptionPlan) CurrentStatus() string { return string(p.Status) }

func (p *SubscriptionPlan) SetStatus(status string) { p.Status = PlanStatus(status) }

type SubscriptionPlanPatch struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=120"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	Price        *float64  `json:"price" validate:"omitempty,gte=0"`
	BillingCycle *string   `json:"billing_cycle" validate:"omitempty,oneof=monthly yearly"`
	MaxStudents  *int      `json:"max_students" validate:"omitempty,min=1"`
	Features     *[]string `json:"features"`
	Status       *string   `json:"status"`
}

func (p *SubscriptionPlanPatch) ApplyTo(plan *SubscriptionPlan) {
	if p.Name != nil {
		plan.Name = *p.Name
	}
	if p.Description != nil {
		plan.Description = p.Description
	}
	if p.Price != nil {
		plan.Price = *p.Price
	}
	if p.BillingCycle != nil {
		plan.BillingCycle = *p.BillingCycle
	}
	if p.MaxStudents != nil {
		plan.MaxStudents = p.MaxStudents
	}
	if p.Features != nil {
		plan.Features = *p.Features
	}
}

func (p *SubscriptionPlanPatch) RequestedStatus() (string, bool) {
	if p.Status == nil {
		return "", false
	}
	return *p.Status, true
}
