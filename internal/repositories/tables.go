package repositories

// Tables of the record kinds served by the generic repository.
var (
	EnquiryTable = Table{
		Name:       "enquiries",
		Scoped:     true,
		Filterable: []string{"status", "source", "class_applied", "phone"},
	}
	VisitorTable = Table{
		Name:       "visitors",
		Scoped:     true,
		Filterable: []string{"purpose", "person_to_meet", "phone"},
	}
	PostalExchangeTable = Table{
		Name:       "postal_exchanges",
		Scoped:     true,
		Filterable: []string{"direction", "reference_no"},
	}
	VehicleTable = Table{
		Name:       "vehicles",
		Scoped:     true,
		Filterable: []string{"vehicle_number"},
	}
	DriverTable = Table{
		Name:       "drivers",
		Scoped:     true,
		Filterable: []string{"license_number", "phone"},
	}
	GeneralSettingTable = Table{
		Name:   "general_settings",
		Scoped: true,
	}
	SubscriptionPlanTable = Table{
		Name:       "subscription_plans",
		Filterable: []string{"status", "billing_cycle"},
	}
	SchoolTable = Table{
		Name:       "schools",
		Filterable: []string{"status", "code"},
	}
)
