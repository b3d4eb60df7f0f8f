package models

// GeneralSetting holds a school's profile and branding.
type GeneralSetting struct {
	TenantBase
	SchoolName  string  `json:"school_name" db:"school_name" validate:"required,max=200"`
	Address     *string `json:"address" db:"address" validate:"omitempty,max=500"`
	Phone       *string `json:"phone" db:"phone" validate:"omitempty,max=30"`
	Email       *string `json:"email" db:"email" validate:"omitempty,email"`
	SessionYear *string `json:"session_year" db:"session_year" validate:"omitempty,max=20"`
	Currency    *string `json:"currency" db:"currency" validate:"omitempty,len=3"`
	Timezone    *string `json:"timezone" db:"timezone" validate:"omitempty,timezone"`
	// LogoKey is written only by the branding upload.
	LogoKey *string `json:"logo_key" db:"logo_key"`
}

func (s *GeneralSetting) ResetManaged() { s.LogoKey = nil }

func (s *GeneralSetting) Columns() []Column {
	return []Column{
		{"school_name", s.SchoolName},
		{"address", s.Address},
		{"phone", s.Phone},
		{"email", s.Email},
		{"session_year", s.SessionYear},
		{"currency", s.Currency},
		{"timezone", s.Timezone},
		{"logo_key", s.LogoKey},
	}
}

type GeneralSettingPatch struct {
	noStatus
	SchoolName  *string `json:"school_name" validate:"omitempty,min=1,max=200"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Email       *string `json:"email" validate:"omitempty,email"`
	SessionYear *string `json:"session_year" validate:"omitempty,max=20"`
	Currency    *string `json:"currency" validate:"omitempty,len=3"`
	Timezone    *string `json:"timezone" validate:"omitempty,timezone"`
}

func (p *GeneralSettingPatch) ApplyTo(s *GeneralSetting) {
	if p.SchoolName != nil {
		s.SchoolName = *p.SchoolName
	}
	if p.Address != nil {
		s.Address = p.Address
	}
	if p.Phone != nil {
		s.Phone = p.Phone
	}
	if p.Email != nil {
		s.Email = p.Email
	}
	if p.SessionYear != nil {
		s.SessionYear = p.SessionYear
	}
	if p.Currency != nil {
		s.Currency = p.Currency
	}
	if p.Timezone != nil {
		s.Timezone = p.Timezone
	}
}
