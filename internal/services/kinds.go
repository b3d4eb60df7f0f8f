package services

import (
	"context"
	"errors"

	"schoolerp/internal/common"
	"schoolerp/internal/lifecycle"
	"schoolerp/internal/models"
	"schoolerp/internal/tenancy"
)

var (
	EnquiryKind = Kind[models.Enquiry]{
		Resource: tenancy.ResourceEnquiry,
		Workflow: lifecycle.Enquiry,
		NewPatch: func() Patch[models.Enquiry] { return &models.EnquiryPatch{} },
	}
	VisitorKind = Kind[models.Visitor]{
		Resource: tenancy.ResourceVisitor,
		NewPatch: func() Patch[models.Visitor] { return &models.VisitorPatch{} },
	}
	PostalExchangeKind = Kind[models.PostalExchange]{
		Resource: tenancy.ResourcePostalExchange,
		NewPatch: func() Patch[models.PostalExchange] { return &models.PostalExchangePatch{} },
	}
	VehicleKind = Kind[models.Vehicle]{
		Resource: tenancy.ResourceVehicle,
		NewPatch: func() Patch[models.Vehicle] { return &models.VehiclePatch{} },
	}
	DriverKind = Kind[models.Driver]{
		Resource: tenancy.ResourceDriver,
		NewPatch: func() Patch[models.Driver] { return &models.DriverPatch{} },
	}
	GeneralSettingKind = Kind[models.GeneralSetting]{
		Resource: tenancy.ResourceGeneralSetting,
		NewPatch: func() Patch[models.GeneralSetting] { return &models.GeneralSettingPatch{} },
	}
	SubscriptionPlanKind = Kind[models.SubscriptionPlan]{
		Resource: tenancy.ResourceSubscriptionPlan,
		Workflow: lifecycle.SubscriptionPlan,
		NewPatch: func() Patch[models.SubscriptionPlan] { return &models.SubscriptionPlanPatch{} },
	}
	SchoolKind = Kind[models.School]{
		Resource: tenancy.ResourceSchool,
		NewPatch: func() Patch[models.School] { return &models.SchoolPatch{} },
	}
)

// NewVehicleKind is VehicleKind with its driver reference resolved through
// drivers, restricted to the vehicle's tenant. A driver of another school is
// reported exactly like one that does not exist.
func NewVehicleKind(drivers tenancy.Finder[models.Driver]) Kind[models.Vehicle] {
	kind := VehicleKind
	kind.References = func(ctx context.Context, v *models.Vehicle) error {
		if v.DriverID == nil {
			return nil
		}
		tenantID := v.TenantID
		if _, err := drivers(ctx, *v.DriverID, &tenantID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewValidationError("driver_id", "unknown driver")
			}
			return err
		}
		return nil
	}
	return kind
}
