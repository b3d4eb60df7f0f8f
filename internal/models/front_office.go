package models

import "time"

// Visitor is an entry in the front-office visitor book.
type Visitor struct {
	TenantBase
	Name         string     `json:"name" db:"name" validate:"required,max=120"`
	Phone        *string    `json:"phone" db:"phone" validate:"omitempty,max=30"`
	Purpose      string     `json:"purpose" db:"purpose" validate:"required,max=200"`
	PersonToMeet *string    `json:"person_to_meet" db:"person_to_meet" validate:"omitempty,max=120"`
	IDProof      *string    `json:"id_proof" db:"id_proof" validate:"omitempty,max=120"`
	VisitDate    time.Time  `json:"visit_date" db:"visit_date" validate:"required"`
	CheckIn      *time.Time `json:"check_in" db:"check_in"`
	CheckOut     *time.Time `json:"check_out" db:"check_out"`
	Notes        *string    `json:"notes" db:"notes" validate:"omitempty,max=2000"`
}

func (v *Visitor) Columns() []Column {
	return []Column{
		{"name", v.Name},
		{"phone", v.Phone},
		{"purpose", v.Purpose},
		{"person_to_meet", v.PersonToMeet},
		{"id_proof", v.IDProof},
		{"visit_date", v.VisitDate},
		{"check_in", v.CheckIn},
		{"check_out", v.CheckOut},
		{"notes", v.Notes},
	}
}

type VisitorPatch struct {
	noStatus
	Name         *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Phone        *string    `json:"phone" validate:"omitempty,max=30"`
	Purpose      *string    `json:"purpose" validate:"omitempty,min=1,max=200"`
	PersonToMeet *string    `json:"person_to_meet" validate:"omitempty,max=120"`
	IDProof      *string    `json:"id_proof" validate:"omitempty,max=120"`
	VisitDate    *time.Time `json:"visit_date"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Notes        *string    `json:"notes" validate:"omitempty,max=2000"`
}

func (p *VisitorPatch) ApplyTo(v *Visitor) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Phone != nil {
		v.Phone = p.Phone
	}
	if p.Purpose != nil {
		v.Purpose = *p.Purpose
	}
	if p.PersonToMeet != nil {
		v.PersonToMeet = p.PersonToMeet
	}
	if p.IDProof != nil {
		v.IDProof = p.IDProof
	}
	if p.VisitDate != nil {
		v.VisitDate = *p.VisitDate
	}
	if p.CheckIn != nil {
		v.CheckIn = p.CheckIn
	}
	if p.CheckOut != nil {
		v.CheckOut = p.CheckOut
	}
	if p.Notes != nil {
		v.Notes = p.Notes
	}
}

// PostalDirection tells whether a postal item left or arrived at the school.
type PostalDirection string

const (
	PostalDispatch PostalDirection = "dispatch"
	PostalReceive  PostalDirection = "receive"
)

// PostalExchange is a dispatched or received postal item.
type PostalExchange struct {
	TenantBase
	Direction   PostalDirection `json:"direction" db:"direction" validate:"required,oneof=dispatch receive"`
	ReferenceNo *string         `json:"reference_no" db:"reference_no" validate:"omitempty,max=60"`
	FromTitle   string          `json:"from_title" db:"from_title" validate:"required,max=200"`
	ToTitle     string          `json:"to_title" db:"to_title" validate:"required,max=200"`
	Address     *string         `json:"address" db:"address" validate:"omitempty,max=500"`
	Note        *string         `json:"note" db:"note" validate:"omitempty,max=2000"`
	PostalDate  time.Time       `json:"postal_date" db:"postal_date" validate:"required"`
}

func (p *PostalExchange) Columns() []Column {
	return []Column{
		{"direction", string(p.Direction)},
		{"reference_no", p.ReferenceNo},
		{"from_title", p.FromTitle},
		{"to_title", p.ToTitle},
		{"address", p.Address},
		{"note", p.Note},
		{"postal_date", p.PostalDate},
	}
}

type PostalExchangePatch struct {
	noStatus
	Direction   *PostalDirection `json:"direction" validate:"omitempty,oneof=dispatch receive"`
	ReferenceNo *string          `json:"reference_no" validate:"omitempty,max=60"`
	FromTitle   *string          `json:"from_title" validate:"omitempty,min=1,max=200"`
	ToTitle     *string          `json:"to_title" validate:"omitempty,min=1,max=200"`
	Address     *string          `json:"address" validate:"omitempty,max=500"`
	Note        *string          `json:"note" validate:"omitempty,max=2000"`
	PostalDate  *time.Time       `json:"postal_date"`
}

func (p *PostalExchangePatch) ApplyTo(px *PostalExchange) {
	if p.Direction != nil {
		px.Direction = *p.Direction
	}
	if p.ReferenceNo != nil {
		px.ReferenceNo = p.ReferenceNo
	}
	if p.FromTitle != nil {
		px.FromTitle = *p.FromTitle
	}
	if p.ToTitle != nil {
		px.ToTitle = *p.ToTitle
	}
	if p.Address != nil {
		px.Address = p.Address
	}
	if p.Note != nil {
		px.Note = p.Note
	}
	if p.PostalDate != nil {
		px.PostalDate = *p.PostalDate
	}
}

// noStatus is embedded by patches of records without a workflow status.
type noStatus struct{}

func (noStatus) RequestedStatus() (string, bool) { return "", false }
