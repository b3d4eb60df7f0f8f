package services

import (
	"context"
	"errors"
	"fmt"

	"schoolerp/internal/common"
	"schoolerp/internal/logger"
	"schoolerp/internal/models"
	"schoolerp/internal/repositories"
	"schoolerp/internal/tenancy"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TxBeginner starts a transaction. *pgxpool.Pool and pgxmock satisfy it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SchoolService onboards new tenants.
type SchoolService interface {
	Onboard(ctx context.Context, p tenancy.Principal, req *models.OnboardSchoolRequest) (*models.OnboardSchoolResponse, error)
}

type schoolService struct {
	db       TxBeginner
	schools  *repositories.Repository[models.School, *models.School]
	settings *repositories.Repository[models.GeneralSetting, *models.GeneralSetting]
	users    repositories.UserRepository
	policy   tenancy.Policy
}

func NewSchoolService(db TxBeginner, schools *repositories.Repository[models.School, *models.School],
	settings *repositories.Repository[models.GeneralSetting, *models.GeneralSetting],
	users repositories.UserRepository, policy tenancy.Policy) SchoolService {
	return &schoolService{db: db, schools: schools, settings: settings, users: users, policy: policy}
}

// Onboard creates the school, its general settings and its first school
// admin in one transaction.
func (s *schoolService) Onboard(ctx context.Context, p tenancy.Principal, req *models.OnboardSchoolRequest) (*models.OnboardSchoolResponse, error) {
	if !s.policy.Permits(p.Role, tenancy.Action{Verb: tenancy.VerbCreate, Resource: tenancy.ResourceSchool}) {
		return nil, fmt.Errorf("%w: %s may not onboard schools", common.ErrForbidden, p.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	resp := &models.OnboardSchoolResponse{}
	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		school := &models.School{Name: req.Name, Code: req.Code, Status: models.SchoolActive}
		if err := s.schools.WithDB(tx).Create(ctx, school); err != nil {
			if errors.Is(err, common.ErrValidation) {
				return common.NewValidationError("code", "already taken")
			}
			return err
		}

		setting := &models.GeneralSetting{SchoolName: req.Name}
		setting.SetOwner(school.ID)
		if err := s.settings.WithDB(tx).Create(ctx, setting); err != nil {
			return err
		}

		tenantID := school.ID
		admin := &models.User{
			TenantID:     &tenantID,
			Email:        req.AdminEmail,
			PasswordHash: string(hash),
			FullName:     req.AdminName,
			Role:         string(tenancy.RoleSchoolAdmin),
			Status:       models.UserActive,
		}
		if err := s.users.WithDB(tx).Create(ctx, admin); err != nil {
			return err
		}

		resp.School, resp.Setting, resp.Admin = school, setting, admin
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("school onboarded",
		zap.String("school_id", resp.School.ID.String()),
		zap.String("code", resp.School.Code),
		zap.String("by", p.UserID.String()))
	return resp, nil
}
