package tenancy

// Verb is the CRUD operation being attempted.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbRead   Verb = "read"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

// Resource names an entity kind.
type Resource string

const (
	ResourceEnquiry          Resource = "enquiry"
	ResourceVisitor          Resource = "visitor"
	ResourcePostalExchange   Resource = "postal_exchange"
	ResourceVehicle          Resource = "vehicle"
	ResourceDriver           Resource = "driver"
	ResourceGeneralSetting   Resource = "general_setting"
	ResourceSubscriptionPlan Resource = "subscription_plan"
	ResourceSchool           Resource = "school"
	ResourceUser             Resource = "user"
)

// Action is a verb applied to a resource kind.
type Action struct {
	Verb     Verb
	Resource Resource
}

func (a Action) String() string {
	return string(a.Resource) + ":" + string(a.Verb)
}

// Policy decides whether a role may perform an action, independent of tenant.
type Policy interface {
	Permits(role Role, action Action) bool
}

// Grants lists the roles allowed per verb on one resource.
type Grants map[Verb][]Role

// StaticPolicy is a fixed allow table. Anything not listed is denied.
type StaticPolicy struct {
	table map[Resource]Grants
}

var (
	members     = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent}
	frontOffice = []Role{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher}
	admins      = []Role{RoleSuperAdmin, RoleSchoolAdmin}
	schoolAdmin = []Role{RoleSchoolAdmin}
	superAdmin  = []Role{RoleSuperAdmin}
)

// DefaultPolicy returns the platform allow table. super_admin never creates
// tenant-owned records: it has no tenant to stamp on them.
func DefaultPolicy() *StaticPolicy {
	frontOfficeGrants := Grants{
		VerbCreate: []Role{RoleSchoolAdmin, RoleTeacher},
		VerbRead:   frontOffice,
		VerbUpdate: frontOffice,
		VerbDelete: admins,
	}
	// transport and settings: readable by every member, managed by admins
	adminManaged := Grants{
		VerbCreate: schoolAdmin,
		VerbRead:   members,
		VerbUpdate: admins,
		VerbDelete: admins,
	}

	return NewStaticPolicy(map[Resource]Grants{
		ResourceEnquiry:        frontOfficeGrants,
		ResourceVisitor:        frontOfficeGrants,
		ResourcePostalExchange: frontOfficeGrants,
		ResourceVehicle:        adminManaged,
		ResourceDriver:         adminManaged,
		ResourceGeneralSetting: adminManaged,
		ResourceSubscriptionPlan: {
			VerbCreate: superAdmin,
			VerbRead:   admins,
			VerbUpdate: superAdmin,
			VerbDelete: superAdmin,
		},
		ResourceSchool: {
			VerbCreate: superAdmin,
			VerbRead:   superAdmin,
			VerbUpdate: superAdmin,
			VerbDelete: superAdmin,
		},
		ResourceUser: {
			VerbCreate: schoolAdmin,
			VerbRead:   admins,
			VerbUpdate: admins,
			VerbDelete: admins,
		},
	})
}

// NewStaticPolicy copies table so later mutation of the argument has no effect.
func NewStaticPolicy(table map[Resource]Grants) *StaticPolicy {
	copied := make(map[Resource]Grants, len(table))
	for res, g := range table {
		cg := make(Grants, len(g))
		for verb, roles := range g {
			cg[verb] = append([]Role(nil), roles...)
		}
		copied[res] = cg
	}
	return &StaticPolicy{table: copied}
}

// Permits implements Policy.
func (p *StaticPolicy) Permits(role Role, action Action) bool {
	g, ok := p.table[action.Resource]
	if !ok {
		return false
	}
	for _, allowed := range g[action.Verb] {
		if allowed == role {
			return true
		}
	}
	return false
}
