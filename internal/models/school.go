package models

// SchoolStatus is the onboarding state of a tenant.
type SchoolStatus string

const (
	SchoolActive    SchoolStatus = "active"
	SchoolSuspended SchoolStatus = "suspended"
)

// School is a tenant. Its ID is the tenant id carried by every tenant-owned
// record.
type School struct {
	Base
	Name   string       `json:"name" db:"name" validate:"required,max=200"`
	Code   string       `json:"code" db:"code" validate:"required,alphanum,max=30"`
	Status SchoolStatus `json:"status" db:"status" validate:"omitempty,oneof=active suspended"`
}

func (s *School) Columns() []Column {
	status := s.Status
	if status == "" {
		status = SchoolActive
	}
	return []Column{
		{"name", s.Name},
		{"code", s.Code},
		{"status", string(status)},
	}
}

type SchoolPatch struct {
	noStatus
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
	// Status toggles suspension; schools have no workflow so it is a plain field.
	Status *SchoolStatus `json:"status" validate:"omitempty,oneof=active suspended"`
}

func (p *SchoolPatch) ApplyTo(s *School) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}

// OnboardSchoolRequest creates a school, its general settings and its first
// administrator.
type OnboardSchoolRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Code          string `json:"code" validate:"required,alphanum,max=30"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminName     string `json:"admin_name" validate:"required,max=120"`
	AdminPassword string `json:"admin_password" validate:"required,min=8,max=72"`
}

type OnboardSchoolResponse struct {
	School  *School         `json:"school"`
	Setting *GeneralSetting `json:"setting"`
	Admin   *User           `json:"admin"`
}
