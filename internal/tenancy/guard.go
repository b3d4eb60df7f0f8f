package tenancy

import (
	"context"
	"fmt"

	"schoolerp/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Filter is a list query over one resource kind. TenantID is owned by the
// guard: whatever the caller put there is replaced by Scope.
type Filter struct {
	TenantID *uuid.UUID
	Match    map[string]string
	Limit    int
	Offset   int
}

// Finder loads one record by primary key, restricted to tenantID when it is
// non-nil. Implementations must apply both predicates in a single lookup and
// return common.ErrNotFound when no row matches.
type Finder[T any] func(ctx context.Context, id uuid.UUID, tenantID *uuid.UUID) (*T, error)

// Guard enforces tenant isolation on every data access.
type Guard struct {
	log *zap.Logger
}

// NewGuard creates a guard that reports privileged bypasses to log.
func NewGuard(log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{log: log.Named("tenancy")}
}

// Scope rewrites f so that it can only match rows of the principal's tenant.
// A client-supplied tenant is discarded, never merged. super_admin is the one
// unrestricted principal and gets f back untouched.
func (g *Guard) Scope(p Principal, f Filter) Filter {
	if p.IsSuperAdmin() {
		g.log.Info("unscoped list by super_admin",
			zap.String("user_id", p.UserID.String()),
			zap.Bool("tenant_filter", f.TenantID != nil))
		return f
	}

	scoped := f
	scoped.TenantID = nil
	if tid, ok := p.Tenant(); ok {
		scoped.TenantID = &tid
	}
	return scoped
}

// Predicate returns the tenant predicate for single-record paths. Only
// super_admin gets nil (no restriction); a tenant-less non-super principal
// cannot reach here because NewPrincipal rejects it.
func (g *Guard) Predicate(p Principal) (*uuid.UUID, error) {
	if p.IsSuperAdmin() {
		g.log.Info("unscoped record access by super_admin", zap.String("user_id", p.UserID.String()))
		return nil, nil
	}
	tid, ok := p.Tenant()
	if !ok {
		return nil, fmt.Errorf("%w: principal has no tenant", common.ErrUnauthenticated)
	}
	return &tid, nil
}

// AuthorizeRecord loads id through find with the principal's tenant predicate.
// A record owned by another tenant is indistinguishable from a missing one.
func AuthorizeRecord[T any](ctx context.Context, g *Guard, p Principal, id uuid.UUID, find Finder[T]) (*T, error) {
	tenantID, err := g.Predicate(p)
	if err != nil {
		return nil, err
	}
	return find(ctx, id, tenantID)
}
