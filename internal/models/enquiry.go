package models

import "time"

// EnquiryStatus is the admission enquiry workflow state.
type EnquiryStatus string

const (
	EnquiryActive  EnquiryStatus = "active"
	EnquiryPassive EnquiryStatus = "passive"
	EnquiryDead    EnquiryStatus = "dead"
	EnquiryWon     EnquiryStatus = "won"
	EnquiryLost    EnquiryStatus = "lost"
)

// Enquiry is an admission enquiry logged by the front office.
type Enquiry struct {
	TenantBase
	StudentName  string        `json:"student_name" db:"student_name" validate:"required,max=120"`
	GuardianName *string       `json:"guardian_name" db:"guardian_name" validate:"omitempty,max=120"`
	Phone        string        `json:"phone" db:"phone" validate:"required,max=30"`
	Email        *string       `json:"email" db:"email" validate:"omitempty,email"`
	ClassApplied *string       `json:"class_applied" db:"class_applied" validate:"omitempty,max=50"`
	Source       *string       `json:"source" db:"source" validate:"omitempty,max=50"`
	Notes        *string       `json:"notes" db:"notes" validate:"omitempty,max=2000"`
	FollowUpDate *time.Time    `json:"follow_up_date" db:"follow_up_date"`
	Status       EnquiryStatus `json:"status" db:"status"`
}

func (e *Enquiry) Columns() []Column {
	return []Column{
		{"student_name", e.StudentName},
		{"guardian_name", e.GuardianName},
		{"phone", e.Phone},
		{"email", e.Email},
		{"class_applied", e.ClassApplied},
		{"source", e.Source},
		{"notes", e.Notes},
		{"follow_up_date", e.FollowUpDate},
		{"status", string(e.Status)},
	}
}

func (e *Enquiry) CurrentStatus() string { return string(e.Status) }

func (e *Enquiry) SetStatus(status string) { e.Status = EnquiryStatus(status) }

// EnquiryPatch carries a partial enquiry update. Status is routed through the
// lifecycle engine and never copied by ApplyTo.
type EnquiryPatch struct {
	StudentName  *string    `json:"student_name" validate:"omitempty,min=1,max=120"`
	GuardianName *string    `json:"guardian_name" validate:"omitempty,max=120"`
	Phone        *string    `json:"phone" validate:"omitempty,min=1,max=30"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	ClassApplied *string    `json:"class_applied" validate:"omitempty,max=50"`
	Source       *string    `json:"source" validate:"omitempty,max=50"`
	Notes        *string    `json:"notes" validate:"omitempty,max=2000"`
	FollowUpDate *time.Time `json:"follow_up_date"`
	Status       *string    `json:"status"`
}

func (p *EnquiryPatch) ApplyTo(e *Enquiry) {
	if p.StudentName != nil {
		e.StudentName = *p.StudentName
	}
	if p.GuardianName != nil {
		e.GuardianName = p.GuardianName
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.Email != nil {
		e.Email = p.Email
	}
	if p.ClassApplied != nil {
		e.ClassApplied = p.ClassApplied
	}
	if p.Source != nil {
		e.Source = p.Source
	}
	if p.Notes != nil {
		e.Notes = p.Notes
	}
	if p.FollowUpDate != nil {
		e.FollowUpDate = p.FollowUpDate
	}
}

func (p *EnquiryPatch) RequestedStatus() (string, bool) {
	if p.Status == nil {
		return "", false
	}
	return *p.Status, true
}
