package lifecycle

import (
	"testing"

	"schoolerp/internal/common"
	"schoolerp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnquiryWonIsFinal(t *testing.T) {
	e := &models.Enquiry{Status: models.EnquiryActive}

	require.NoError(t, Apply(Enquiry, e, string(models.EnquiryWon)))
	assert.Equal(t, models.EnquiryWon, e.Status)

	err := Apply(Enquiry, e, string(models.EnquiryPassive))
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.Equal(t, models.EnquiryWon, e.Status)
}

func TestTerminalEnquiryStatesAreClosed(t *testing.T) {
	m, ok := MachineFor(Enquiry)
	require.True(t, ok)

	for _, terminal := range []models.EnquiryStatus{models.EnquiryWon, models.EnquiryLost, models.EnquiryDead} {
		for state := range m.Next {
			if state == string(terminal) {
				continue
			}
			e := &models.Enquiry{Status: terminal}
			err := Apply(Enquiry, e, state)
			assert.ErrorIs(t, err, common.ErrInvalidTransition, "%s -> %s", terminal, state)
			assert.Equal(t, terminal, e.Status)
		}
	}
}

func TestOpenEnquiryStatesReachEverything(t *testing.T) {
	for _, from := range []string{"active", "passive"} {
		for _, to := range []string{"active", "passive", "won", "lost", "dead"} {
			assert.True(t, CanTransition(Enquiry, from, to), "%s -> %s", from, to)
		}
	}
}

func TestSelfTransitionIsNoop(t *testing.T) {
	for kind, m := range machines {
		for state := range m.Next {
			assert.True(t, CanTransition(kind, state, state), "%s %s", kind, state)
		}
	}

	plan := &models.SubscriptionPlan{Name: "Basic", Status: models.PlanArchived}
	before := *plan
	require.NoError(t, Apply(SubscriptionPlan, plan, string(models.PlanArchived)))
	assert.Equal(t, before, *plan)
}

func TestUndefinedStatesFail(t *testing.T) {
	e := &models.Enquiry{Status: models.EnquiryActive}
	assert.ErrorIs(t, Apply(Enquiry, e, "enrolled"), common.ErrInvalidTransition)
	assert.ErrorIs(t, Apply(Enquiry, e, ""), common.ErrInvalidTransition)

	bad := &models.Enquiry{Status: "enrolled"}
	assert.ErrorIs(t, Apply(Enquiry, bad, "enrolled"), common.ErrInvalidTransition)
	assert.ErrorIs(t, Apply(Enquiry, bad, "active"), common.ErrInvalidTransition)

	assert.False(t, CanTransition("timetable", "a", "a"))
}

func TestPlanTransitions(t *testing.T) {
	assert.True(t, CanTransition(SubscriptionPlan, "Active", "Inactive"))
	assert.True(t, CanTransition(SubscriptionPlan, "Inactive", "Active"))
	assert.True(t, CanTransition(SubscriptionPlan, "Inactive", "Archived"))
	assert.False(t, CanTransition(SubscriptionPlan, "Archived", "Active"))
	assert.False(t, CanTransition(SubscriptionPlan, "Archived", "Inactive"))
	// Enquiry states are not plan states.
	assert.False(t, CanTransition(SubscriptionPlan, "active", "Inactive"))
}

func TestEnter(t *testing.T) {
	e := &models.Enquiry{}
	require.NoError(t, Enter(Enquiry, e))
	assert.Equal(t, models.EnquiryActive, e.Status)

	e = &models.Enquiry{Status: models.EnquiryPassive}
	require.NoError(t, Enter(Enquiry, e))
	assert.Equal(t, models.EnquiryPassive, e.Status)

	e = &models.Enquiry{Status: models.EnquiryWon}
	assert.ErrorIs(t, Enter(Enquiry, e), common.ErrInvalidTransition)

	p := &models.SubscriptionPlan{Status: models.PlanArchived}
	assert.ErrorIs(t, Enter(SubscriptionPlan, p), common.ErrInvalidTransition)

	p = &models.SubscriptionPlan{}
	require.NoError(t, Enter(SubscriptionPlan, p))
	assert.Equal(t, models.PlanActive, p.Status)
}
