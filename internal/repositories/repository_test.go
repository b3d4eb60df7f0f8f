package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"schoolerp/internal/common"
	"schoolerp/internal/models"
	"schoolerp/internal/tenancy"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var driverColumns = []string{"id", "tenant_id", "name", "phone", "license_number", "license_expiry", "address", "created_at", "updated_at"}

type RepositoryTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	enquiries *Repository[models.Enquiry, *models.Enquiry]
	drivers   *Repository[models.Driver, *models.Driver]
	plans     *Repository[models.SubscriptionPlan, *models.SubscriptionPlan]
	tenantA   uuid.UUID
	tenantB   uuid.UUID
	ctx       context.Context
}

func (suite *RepositoryTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.enquiries = NewRepository[models.Enquiry](mock, EnquiryTable)
	suite.drivers = NewRepository[models.Driver](mock, DriverTable)
	suite.plans = NewRepository[models.SubscriptionPlan](mock, SubscriptionPlanTable)
	suite.tenantA = uuid.New()
	suite.tenantB = uuid.New()
	suite.ctx = context.Background()
}

func (suite *RepositoryTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) TestCreate_InsertsTenantColumn() {
	now := time.Now()
	e := &models.Enquiry{StudentName: "Asha", Phone: "9800000000", Status: models.EnquiryActive}
	e.SetOwner(suite.tenantA)

	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO enquiries (id, tenant_id, student_name, guardian_name, phone, email, class_applied, source, notes, follow_up_date, status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING created_at, updated_at`)).
		WithArgs(pgxmock.AnyArg(), suite.tenantA, "Asha", pgxmock.AnyArg(), "9800000000",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "active").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := suite.enquiries.Create(suite.ctx, e)
	require.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, e.ID)
	assert.Equal(suite.T(), suite.tenantA, e.TenantID)
	assert.Equal(suite.T(), now, e.CreatedAt)
}

func (suite *RepositoryTestSuite) TestCreate_RefusesMissingTenant() {
	err := suite.enquiries.Create(suite.ctx, &models.Enquiry{StudentName: "Asha", Phone: "1"})
	assert.Error(suite.T(), err)
}

func (suite *RepositoryTestSuite) TestCreate_ConstraintViolationIsValidation() {
	d := &models.Driver{Name: "Ravi", Phone: "9811111111", LicenseNumber: "DL-0420"}
	d.SetOwner(suite.tenantA)

	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO drivers`)).
		WithArgs(pgxmock.AnyArg(), suite.tenantA, "Ravi", "9811111111", "DL-0420", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "drivers_tenant_id_license_number_key"})

	err := suite.drivers.Create(suite.ctx, d)
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	var verr *common.ValidationError
	require.ErrorAs(suite.T(), err, &verr)
	assert.Contains(suite.T(), verr.Fields, "drivers_tenant_id_license_number_key")
}

func (suite *RepositoryTestSuite) TestFind_AppliesBothPredicates() {
	id := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, tenant_id, name, phone, license_number, license_expiry, address, created_at, updated_at FROM drivers WHERE id = $1 AND tenant_id = $2`)).
		WithArgs(id, suite.tenantA).
		WillReturnRows(pgxmock.NewRows(driverColumns).
			AddRow(id, suite.tenantA, "Ravi", "9811111111", "DL-0420", nil, nil, now, now))

	d, err := suite.drivers.Find(suite.ctx, id, &suite.tenantA)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, d.ID)
	assert.Equal(suite.T(), "Ravi", d.Name)
	assert.Nil(suite.T(), d.Address)
}

func (suite *RepositoryTestSuite) TestFind_OtherTenantIsNotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM drivers WHERE id = $1 AND tenant_id = $2`)).
		WithArgs(id, suite.tenantB).
		WillReturnRows(pgxmock.NewRows(driverColumns))

	d, err := suite.drivers.Find(suite.ctx, id, &suite.tenantB)
	assert.Nil(suite.T(), d)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestFind_UnrestrictedWithoutTenant() {
	id := uuid.New()

	suite.mock.ExpectQuery(regexp.QuoteMeta(`FROM drivers WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(driverColumns))

	_, err := suite.drivers.Find(suite.ctx, id, nil)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestFind_GlobalTableIgnoresTenant() {
	id := uuid.New()

	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, description, price, billing_cycle, max_students, features, status, created_at, updated_at FROM subscription_plans WHERE id = $1`)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "billing_cycle", "max_students", "features", "status", "created_at", "updated_at"}))

	_, err := suite.plans.Find(suite.ctx, id, &suite.tenantA)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestList_ScopedWithFilters() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`FROM enquiries WHERE tenant_id = $1 AND source = $2 AND status = $3 ORDER BY created_at DESC LIMIT $4 OFFSET $5`)).
		WithArgs(suite.tenantA, "walk-in", "active", 20, 40).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "student_name", "guardian_name", "phone", "email",
			"class_applied", "source", "notes", "follow_up_date", "status", "created_at", "updated_at"}))

	recs, err := suite.enquiries.List(suite.ctx, tenancy.Filter{
		TenantID: &suite.tenantA,
		Match:    map[string]string{"status": "active", "source": "walk-in"},
		Limit:    20,
		Offset:   40,
	})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), recs)
}

func (suite *RepositoryTestSuite) TestList_RejectsUnknownFilter() {
	_, err := suite.enquiries.List(suite.ctx, tenancy.Filter{
		TenantID: &suite.tenantA,
		Match:    map[string]string{"tenant_id": suite.tenantB.String()},
	})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *RepositoryTestSuite) TestUpdate_OtherTenantIsNotFound() {
	d := &models.Driver{Name: "Ravi", Phone: "1", LicenseNumber: "DL"}
	d.ID = uuid.New()

	suite.mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE drivers SET name = $1, phone = $2, license_number = $3, license_expiry = $4, address = $5, updated_at = NOW() WHERE id = $6 AND tenant_id = $7 RETURNING created_at, updated_at`)).
		WithArgs("Ravi", "1", "DL", pgxmock.AnyArg(), pgxmock.AnyArg(), d.ID, suite.tenantB).
		WillReturnError(pgx.ErrNoRows)

	err := suite.drivers.Update(suite.ctx, d, &suite.tenantB)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestDelete() {
	id := uuid.New()

	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM drivers WHERE id = $1 AND tenant_id = $2`)).
		WithArgs(id, suite.tenantA).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM drivers WHERE id = $1 AND tenant_id = $2`)).
		WithArgs(id, suite.tenantB).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(suite.T(), suite.drivers.Delete(suite.ctx, id, &suite.tenantA))
	assert.ErrorIs(suite.T(), suite.drivers.Delete(suite.ctx, id, &suite.tenantB), common.ErrNotFound)
}
