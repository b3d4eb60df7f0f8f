// Package lifecycle holds the status state machines of workflow-bearing
// records. Apply is the only code path allowed to change a record's status.
package lifecycle

import (
	"fmt"

	"schoolerp/internal/common"
	"schoolerp/internal/models"
)

// Kind names a workflow-bearing record type.
type Kind string

const (
	Enquiry          Kind = "enquiry"
	SubscriptionPlan Kind = "subscription_plan"
)

// Machine is a closed set of states with an explicit adjacency map.
type Machine struct {
	Initial string
	// Entry lists the states a record may be created in.
	Entry []string
	// Next maps a state to the states reachable from it. Terminal states map
	// to nothing.
	Next map[string][]string
}

// Defined reports whether state belongs to the machine.
func (m Machine) Defined(state string) bool {
	_, ok := m.Next[state]
	return ok
}

// Terminal reports whether state is defined and has no exits.
func (m Machine) Terminal(state string) bool {
	next, ok := m.Next[state]
	return ok && len(next) == 0
}

func (m Machine) allows(from, to string) bool {
	if !m.Defined(from) || !m.Defined(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range m.Next[from] {
		if s == to {
			return true
		}
	}
	return false
}

var machines = map[Kind]Machine{
	Enquiry: {
		Initial: string(models.EnquiryActive),
		Entry:   []string{string(models.EnquiryActive), string(models.EnquiryPassive)},
		Next: map[string][]string{
			string(models.EnquiryActive):  {string(models.EnquiryPassive), string(models.EnquiryWon), string(models.EnquiryLost), string(models.EnquiryDead)},
			string(models.EnquiryPassive): {string(models.EnquiryActive), string(models.EnquiryWon), string(models.EnquiryLost), string(models.EnquiryDead)},
			string(models.EnquiryWon):     nil,
			string(models.EnquiryLost):    nil,
			string(models.EnquiryDead):    nil,
		},
	},
	SubscriptionPlan: {
		Initial: string(models.PlanActive),
		Entry:   []string{string(models.PlanActive), string(models.PlanInactive)},
		Next: map[string][]string{
			string(models.PlanActive):   {string(models.PlanInactive), string(models.PlanArchived)},
			string(models.PlanInactive): {string(models.PlanActive), string(models.PlanArchived)},
			string(models.PlanArchived): nil,
		},
	},
}

// MachineFor returns the state machine registered for kind.
func MachineFor(kind Kind) (Machine, bool) {
	m, ok := machines[kind]
	return m, ok
}

// CanTransition reports whether a record of kind may move from one state to
// another. A self-transition of a defined state is always allowed.
func CanTransition(kind Kind, from, to string) bool {
	m, ok := machines[kind]
	if !ok {
		return false
	}
	return m.allows(from, to)
}

// Apply moves rec to the target state or fails with ErrInvalidTransition,
// leaving rec untouched.
func Apply(kind Kind, rec models.Stateful, to string) error {
	from := rec.CurrentStatus()
	if !CanTransition(kind, from, to) {
		return fmt.Errorf("%w: %s cannot move from %q to %q", common.ErrInvalidTransition, kind, from, to)
	}
	if from != to {
		rec.SetStatus(to)
	}
	return nil
}

// Enter sets the status of a record being created. An empty status selects
// the initial state; anything else must be an entry state.
func Enter(kind Kind, rec models.Stateful) error {
	m, ok := machines[kind]
	if !ok {
		return fmt.Errorf("%w: unknown workflow %q", common.ErrInvalidTransition, kind)
	}
	status := rec.CurrentStatus()
	if status == "" {
		rec.SetStatus(m.Initial)
		return nil
	}
	for _, s := range m.Entry {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot be created in state %q", common.ErrInvalidTransition, kind, status)
}
