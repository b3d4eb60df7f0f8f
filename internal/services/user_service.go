package services

import (
	"context"
	"fmt"

	"schoolerp/internal/common"
	"schoolerp/internal/logger"
	"schoolerp/internal/models"
	"schoolerp/internal/repositories"
	"schoolerp/internal/tenancy"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages the accounts of a school.
type UserService interface {
	Create(ctx context.Context, p tenancy.Principal, req *models.CreateUserRequest) (*models.User, error)
	List(ctx context.Context, p tenancy.Principal, f tenancy.Filter) ([]*models.User, error)
	Get(ctx context.Context, p tenancy.Principal, id uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, p tenancy.Principal, id uuid.UUID) error
}

type userService struct {
	users  repositories.UserRepository
	policy tenancy.Policy
	guard  *tenancy.Guard
}

func NewUserService(users repositories.UserRepository, policy tenancy.Policy, guard *tenancy.Guard) UserService {
	return &userService{users: users, policy: policy, guard: guard}
}

func (s *userService) authorize(p tenancy.Principal, verb tenancy.Verb) error {
	action := tenancy.Action{Verb: verb, Resource: tenancy.ResourceUser}
	if !s.policy.Permits(p.Role, action) {
		return fmt.Errorf("%w: %s may not %s", common.ErrForbidden, p.Role, action)
	}
	return nil
}

// Create adds an account to the principal's school. The role can never be
// super_admin and the tenant always comes from the principal.
func (s *userService) Create(ctx context.Context, p tenancy.Principal, req *models.CreateUserRequest) (*models.User, error) {
	if err := s.authorize(p, tenancy.VerbCreate); err != nil {
		return nil, err
	}
	role, ok := tenancy.ParseRole(req.Role)
	if !ok || role == tenancy.RoleSuperAdmin {
		return nil, common.NewValidationError("role", "not assignable")
	}
	tid, ok := p.Tenant()
	if !ok {
		return nil, fmt.Errorf("%w: users belong to a school", common.ErrForbidden)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		TenantID:     &tid,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         string(role),
		Status:       models.UserActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user created",
		zap.String("id", user.ID.String()),
		zap.String("role", user.Role),
		zap.String("by", p.UserID.String()))
	return user, nil
}

func (s *userService) List(ctx context.Context, p tenancy.Principal, f tenancy.Filter) ([]*models.User, error) {
	if err := s.authorize(p, tenancy.VerbRead); err != nil {
		return nil, err
	}
	if len(f.Match) > 0 {
		return nil, common.NewValidationError("filter", "users cannot be filtered by field")
	}
	scoped := s.guard.Scope(p, f)
	return s.users.List(ctx, scoped.TenantID, scoped.Limit, scoped.Offset)
}

func (s *userService) Get(ctx context.Context, p tenancy.Principal, id uuid.UUID) (*models.User, error) {
	if err := s.authorize(p, tenancy.VerbRead); err != nil {
		return nil, err
	}
	return tenancy.AuthorizeRecord[models.User](ctx, s.guard, p, id, s.users.GetByID)
}

func (s *userService) Delete(ctx context.Context, p tenancy.Principal, id uuid.UUID) error {
	if err := s.authorize(p, tenancy.VerbDelete); err != nil {
		return err
	}
	if id == p.UserID {
		return common.NewValidationError("id", "cannot delete your own account")
	}
	tenantID, err := s.guard.Predicate(p)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, id, tenantID)
}
