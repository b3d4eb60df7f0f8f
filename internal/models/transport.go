package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a school transport vehicle.
type Vehicle struct {
	TenantBase
	VehicleNumber string     `json:"vehicle_number" db:"vehicle_number" validate:"required,max=30"`
	Model         *string    `json:"model" db:"model" validate:"omitempty,max=80"`
	YearMade      *int       `json:"year_made" db:"year_made" validate:"omitempty,min=1950,max=2100"`
	Capacity      *int       `json:"capacity" db:"capacity" validate:"omitempty,min=1,max=200"`
	DriverID      *uuid.UUID `json:"driver_id" db:"driver_id"`
	Notes         *string    `json:"notes" db:"notes" validate:"omitempty,max=2000"`
}

func (v *Vehicle) Columns() []Column {
	return []Column{
		{"vehicle_number", v.VehicleNumber},
		{"model", v.Model},
		{"year_made", v.YearMade},
		{"capacity", v.Capacity},
		{"driver_id", v.DriverID},
		{"notes", v.Notes},
	}
}

type VehiclePatch struct {
	noStatus
	VehicleNumber *string    `json:"vehicle_number" validate:"omitempty,min=1,max=30"`
	Model         *string    `json:"model" validate:"omitempty,max=80"`
	YearMade      *int       `json:"year_made" validate:"omitempty,min=1950,max=2100"`
	Capacity      *int       `json:"capacity" validate:"omitempty,min=1,max=200"`
	DriverID      *uuid.UUID `json:"driver_id"`
	Notes         *string    `json:"notes" validate:"omitempty,max=2000"`
}

func (p *VehiclePatch) ApplyTo(v *Vehicle) {
	if p.VehicleNumber != nil {
		v.VehicleNumber = *p.VehicleNumber
	}
	if p.Model != nil {
		v.Model = p.Model
	}
	if p.YearMade != nil {
		v.YearMade = p.YearMade
	}
	if p.Capacity != nil {
		v.Capacity = p.Capacity
	}
	if p.DriverID != nil {
		v.DriverID = p.DriverID
	}
	if p.Notes != nil {
		v.Notes = p.Notes
	}
}

// Driver is a transport driver employed by the school.
type Driver struct {
	TenantBase
	Name          string     `json:"name" db:"name" validate:"required,max=120"`
	Phone         string     `json:"phone" db:"phone" validate:"required,max=30"`
	LicenseNumber string     `json:"license_number" db:"license_number" validate:"required,max=60"`
	LicenseExpiry *time.Time `json:"license_expiry" db:"license_expiry"`
	Address       *string    `json:"address" db:"address" validate:"omitempty,max=500"`
}

func (d *Driver) Columns() []Column {
	return []Column{
		{"name", d.Name},
		{"phone", d.Phone},
		{"license_number", d.LicenseNumber},
		{"license_expiry", d.LicenseExpiry},
		{"address", d.Address},
	}
}

type DriverPatch struct {
	noStatus
	Name          *string    `json:"name" validate:"omitempty,min=1,max=120"`
	Phone         *string    `json:"phone" validate:"omitempty,min=1,max=30"`
	LicenseNumber *string    `json:"license_number" validate:"omitempty,min=1,max=60"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Address       *string    `json:"address" validate:"omitempty,max=500"`
}

func (p *DriverPatch) ApplyTo(d *Driver) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.LicenseNumber != nil {
		d.LicenseNumber = *p.LicenseNumber
	}
	if p.LicenseExpiry != nil {
		d.LicenseExpiry = p.LicenseExpiry
	}
	if p.Address != nil {
		d.Address = p.Address
	}
}
