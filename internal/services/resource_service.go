package services

import (
	"context"
	"fmt"

	"schoolerp/internal/common"
	"schoolerp/internal/lifecycle"
	"schoolerp/internal/logger"
	"schoolerp/internal/metrics"
	"schoolerp/internal/models"
	"schoolerp/internal/tenancy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence a resource service runs on. Single-record methods
// take the tenant predicate explicitly; nil means unrestricted.
type Store[T any, PT models.RecordPtr[T]] interface {
	Create(ctx context.Context, rec PT) error
	Find(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) (*T, error)
	List(ctx context.Context, f tenancy.Filter) ([]*T, error)
	Update(ctx context.Context, rec PT, tenantID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) error
}

// Patch is a partial update. Status is reported separately so that it can
// only reach the record through the lifecycle engine.
type Patch[T any] interface {
	ApplyTo(rec *T)
	RequestedStatus() (string, bool)
}

// Kind binds a record type to its policy resource and, for workflow-bearing
// records, its state machine.
type Kind[T any] struct {
	Resource tenancy.Resource
	Workflow lifecycle.Kind
	NewPatch func() Patch[T]
	// References, when set, verifies that ids the record points at resolve
	// inside the record's own tenant. It runs before every write.
	References func(ctx context.Context, rec *T) error
}

// ResourceService is the only entry point for reading and writing records of
// one kind. Every operation checks the role policy first, then confines data
// access to the principal's tenant.
type ResourceService[T any, PT models.RecordPtr[T]] struct {
	kind   Kind[T]
	store  Store[T, PT]
	policy tenancy.Policy
	guard  *tenancy.Guard
}

func NewResourceService[T any, PT models.RecordPtr[T]](kind Kind[T], store Store[T, PT], policy tenancy.Policy, guard *tenancy.Guard) *ResourceService[T, PT] {
	return &ResourceService[T, PT]{kind: kind, store: store, policy: policy, guard: guard}
}

func (s *ResourceService[T, PT]) Kind() Kind[T] { return s.kind }

// Create persists rec on behalf of p. Any id or tenant in rec is discarded;
// the tenant always comes from the principal.
func (s *ResourceService[T, PT]) Create(ctx context.Context, p tenancy.Principal, rec PT) (PT, error) {
	if err := s.authorize(ctx, p, tenancy.VerbCreate); err != nil {
		return nil, err
	}

	rec.SetRecordID(uuid.Nil)
	if owned, ok := any(rec).(models.TenantOwned); ok {
		tid, ok := p.Tenant()
		if !ok {
			return nil, fmt.Errorf("%w: %s records belong to a school", common.ErrForbidden, s.kind.Resource)
		}
		owned.SetOwner(tid)
	}
	if managed, ok := any(rec).(models.ServerManaged); ok {
		managed.ResetManaged()
	}

	if s.kind.Workflow != "" {
		stateful, ok := any(rec).(models.Stateful)
		if !ok {
			return nil, fmt.Errorf("%s: record type %T has no status", s.kind.Resource, rec)
		}
		if err := lifecycle.Enter(s.kind.Workflow, stateful); err != nil {
			metrics.RecordTransition(string(s.kind.Workflow), stateful.CurrentStatus(), err)
			return nil, err
		}
	}
	if err := s.checkReferences(ctx, (*T)(rec)); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.log(ctx).Info("record created",
		zap.String("id", rec.RecordID().String()),
		zap.String("user_id", p.UserID.String()))
	return rec, nil
}

// List returns the records p may see. Whatever tenant the caller put in f is
// replaced by the guard.
func (s *ResourceService[T, PT]) List(ctx context.Context, p tenancy.Principal, f tenancy.Filter) ([]*T, error) {
	if err := s.authorize(ctx, p, tenancy.VerbRead); err != nil {
		return nil, err
	}
	return s.store.List(ctx, s.guard.Scope(p, f))
}

// Get loads one record. A record of another tenant is reported as missing.
func (s *ResourceService[T, PT]) Get(ctx context.Context, p tenancy.Principal, id uuid.UUID) (*T, error) {
	if err := s.authorize(ctx, p, tenancy.VerbRead); err != nil {
		return nil, err
	}
	return tenancy.AuthorizeRecord[T](ctx, s.guard, p, id, s.store.Find)
}

// Update applies patch to the record. A requested status change goes through
// the lifecycle engine first; if it is rejected nothing is written.
func (s *ResourceService[T, PT]) Update(ctx context.Context, p tenancy.Principal, id uuid.UUID, patch Patch[T]) (*T, error) {
	if err := s.authorize(ctx, p, tenancy.VerbUpdate); err != nil {
		return nil, err
	}
	rec, err := tenancy.AuthorizeRecord[T](ctx, s.guard, p, id, s.store.Find)
	if err != nil {
		return nil, err
	}

	if to, ok := patch.RequestedStatus(); ok {
		if err := s.transition(ctx, PT(rec), to); err != nil {
			return nil, err
		}
	}
	patch.ApplyTo(rec)
	if err := s.checkReferences(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, PT(rec), tenantPredicate(p)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Transition changes only the status of the record.
func (s *ResourceService[T, PT]) Transition(ctx context.Context, p tenancy.Principal, id uuid.UUID, to string) (*T, error) {
	if err := s.authorize(ctx, p, tenancy.VerbUpdate); err != nil {
		return nil, err
	}
	rec, err := tenancy.AuthorizeRecord[T](ctx, s.guard, p, id, s.store.Find)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, PT(rec), to); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, PT(rec), tenantPredicate(p)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record with one statement carrying both the id and the
// tenant predicate.
func (s *ResourceService[T, PT]) Delete(ctx context.Context, p tenancy.Principal, id uuid.UUID) error {
	if err := s.authorize(ctx, p, tenancy.VerbDelete); err != nil {
		return err
	}
	tenantID, err := s.guard.Predicate(p)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id, tenantID); err != nil {
		return err
	}
	s.log(ctx).Info("record deleted",
		zap.String("id", id.String()),
		zap.String("user_id", p.UserID.String()))
	return nil
}

func (s *ResourceService[T, PT]) authorize(ctx context.Context, p tenancy.Principal, verb tenancy.Verb) error {
	action := tenancy.Action{Verb: verb, Resource: s.kind.Resource}
	if s.policy.Permits(p.Role, action) {
		return nil
	}
	metrics.RecordDenied(string(action.Resource), string(action.Verb), string(p.Role))
	s.log(ctx).Warn("access denied",
		zap.String("action", action.String()),
		zap.String("role", string(p.Role)),
		zap.String("user_id", p.UserID.String()))
	return fmt.Errorf("%w: %s may not %s", common.ErrForbidden, p.Role, action)
}

func (s *ResourceService[T, PT]) transition(ctx context.Context, rec PT, to string) error {
	if s.kind.Workflow == "" {
		return common.NewValidationError("status", fmt.Sprintf("%s has no status", s.kind.Resource))
	}
	stateful, ok := any(rec).(models.Stateful)
	if !ok {
		return fmt.Errorf("%s: record type %T has no status", s.kind.Resource, rec)
	}

	from := stateful.CurrentStatus()
	err := lifecycle.Apply(s.kind.Workflow, stateful, to)
	metrics.RecordTransition(string(s.kind.Workflow), to, err)
	if err != nil {
		s.log(ctx).Info("status change rejected",
			zap.String("id", rec.RecordID().String()),
			zap.String("from", from),
			zap.String("to", to))
		return err
	}
	return nil
}

func (s *ResourceService[T, PT]) checkReferences(ctx context.Context, rec *T) error {
	if s.kind.References == nil {
		return nil
	}
	return s.kind.References(ctx, rec)
}

func (s *ResourceService[T, PT]) log(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx).With(zap.String("resource", string(s.kind.Resource)))
}

// tenantPredicate is the tenant filter for writes after the record has
// already been authorized.
func tenantPredicate(p tenancy.Principal) *uuid.UUID {
	if tid, ok := p.Tenant(); ok {
		return &tid
	}
	return nil
}
