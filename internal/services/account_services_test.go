package services

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"schoolerp/internal/auth"
	"schoolerp/internal/common"
	"schoolerp/internal/models"
	"schoolerp/internal/repositories"
	"schoolerp/internal/tenancy"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bucket, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) PresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Remove(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockObjectStore) EnsureBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

type MockObjectRemover struct {
	mock.Mock
}

func (m *MockObjectRemover) RemoveLater(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     &tenantID,
		Email:        "teacher@greenfield.test",
		PasswordHash: hashed(t, "correct horse"),
		Role:         string(tenancy.RoleTeacher),
		Status:       models.UserActive,
	}

	users := &MockAccountStore{}
	users.On("GetByEmail", ctx, user.Email).Return(user, nil)
	users.On("GetByEmail", ctx, "nobody@greenfield.test").Return(nil, common.ErrNotFound)

	svc := NewAuthService(users, auth.NewIssuer("secret", time.Hour), &MockRevocationStore{})

	resp, err := svc.Login(ctx, user.Email, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	require.NotNil(t, resp.TenantID)
	assert.Equal(t, tenantID.String(), *resp.TenantID)

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "teacher", claims.Role)

	_, err = svc.Login(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = svc.Login(ctx, "nobody@greenfield.test", "whatever")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	revoked := &MockRevocationStore{}
	revoked.On("Revoke", ctx, "jti-1", mock.MatchedBy(func(t time.Time) bool { return t.Equal(exp.Truncate(time.Second)) })).Return(nil).Once()

	svc := NewAuthService(&MockAccountStore{}, auth.NewIssuer("secret", time.Hour), revoked)

	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1", ExpiresAt: jwt.NewNumericDate(exp)}}
	require.NoError(t, svc.Logout(ctx, claims))
	assert.ErrorIs(t, svc.Logout(ctx, nil), common.ErrUnauthenticated)
	revoked.AssertExpectations(t)
}

func TestOnboardSchool(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	now := time.Now()
	svc := NewSchoolService(pool,
		repositories.NewRepository[models.School](pool, repositories.SchoolTable),
		repositories.NewRepository[models.GeneralSetting](pool, repositories.GeneralSettingTable),
		repositories.NewUserRepo(pool),
		tenancy.DefaultPolicy())

	root, err := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSuperAdmin, nil)
	require.NoError(t, err)

	pool.ExpectBegin()
	pool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO schools (id, name, code, status)`)).
		WithArgs(pgxmock.AnyArg(), "Greenfield High", "GFH", "active").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	pool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO general_settings (id, tenant_id, school_name`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "Greenfield High", pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	pool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "head@greenfield.test", pgxmock.AnyArg(), "Head Teacher", "school_admin", "active").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	pool.ExpectCommit()

	resp, err := svc.Onboard(ctx, root, &models.OnboardSchoolRequest{
		Name:          "Greenfield High",
		Code:          "GFH",
		AdminEmail:    "Head@Greenfield.test",
		AdminName:     "Head Teacher",
		AdminPassword: "s3cure-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.School.ID, resp.Setting.TenantID)
	require.NotNil(t, resp.Admin.TenantID)
	assert.Equal(t, resp.School.ID, *resp.Admin.TenantID)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestOnboardSchool_DuplicateCodeRollsBack(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	svc := NewSchoolService(pool,
		repositories.NewRepository[models.School](pool, repositories.SchoolTable),
		repositories.NewRepository[models.GeneralSetting](pool, repositories.GeneralSettingTable),
		repositories.NewUserRepo(pool),
		tenancy.DefaultPolicy())
	root, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSuperAdmin, nil)

	pool.ExpectBegin()
	pool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO schools`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	pool.ExpectRollback()

	_, err = svc.Onboard(ctx, root, &models.OnboardSchoolRequest{
		Name: "Greenfield High", Code: "GFH", AdminEmail: "a@b.test", AdminName: "A", AdminPassword: "s3cure-pass",
	})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "code")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestOnboardSchool_SchoolAdminForbidden(t *testing.T) {
	tenantID := uuid.New()
	admin, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSchoolAdmin, &tenantID)
	svc := NewSchoolService(nil, nil, nil, nil, tenancy.DefaultPolicy())

	_, err := svc.Onboard(context.Background(), admin, &models.OnboardSchoolRequest{})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	tenantID := uuid.New()
	admin, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSchoolAdmin, &tenantID)
	root, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSuperAdmin, nil)
	svc := NewUserService(repositories.NewUserRepo(pool), tenancy.DefaultPolicy(), tenancy.NewGuard(nil))

	now := time.Now()
	pool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), &tenantID, "clerk@greenfield.test", pgxmock.AnyArg(), "Clerk", "teacher", "active").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user, err := svc.Create(ctx, admin, &models.CreateUserRequest{
		Email: "clerk@greenfield.test", FullName: "Clerk", Password: "s3cure-pass", Role: "teacher",
	})
	require.NoError(t, err)
	assert.Equal(t, tenantID, *user.TenantID)
	assert.NoError(t, pool.ExpectationsWereMet())

	_, err = svc.Create(ctx, admin, &models.CreateUserRequest{Email: "x@y.test", FullName: "X", Password: "s3cure-pass", Role: "super_admin"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, root, &models.CreateUserRequest{Email: "x@y.test", FullName: "X", Password: "s3cure-pass", Role: "teacher"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, admin, admin.UserID), common.ErrValidation)

	pool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	_, err = svc.Create(ctx, admin, &models.CreateUserRequest{
		Email: "taken@elsewhere.test", FullName: "Dup", Password: "s3cure-pass", Role: "teacher",
	})
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"email": "cannot be used"}, verr.Fields)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	tenantID := uuid.New()
	admin, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSchoolAdmin, &tenantID)
	svc := NewUserService(repositories.NewUserRepo(pool), tenancy.DefaultPolicy(), tenancy.NewGuard(nil))

	now := time.Now()
	other := uuid.New()
	pool.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE tenant_id = $1`)).
		WithArgs(tenantID, 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "email", "password_hash", "full_name", "role", "status", "created_at", "updated_at"}).
			AddRow(uuid.New(), &tenantID, "clerk@greenfield.test", "hash", "Clerk", "teacher", "active", now, now))

	users, err := svc.List(ctx, admin, tenancy.Filter{TenantID: &other, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "clerk@greenfield.test", users[0].Email)
	assert.NoError(t, pool.ExpectationsWereMet())

	_, err = svc.List(ctx, admin, tenancy.Filter{Match: map[string]string{"role": "teacher"}, Limit: 10})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUploadLogo(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	admin, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSchoolAdmin, &tenantID)
	teacher, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleTeacher, &tenantID)

	setting := &models.GeneralSetting{SchoolName: "Greenfield High"}
	setting.ID = uuid.New()
	setting.TenantID = tenantID
	key := tenantID.String() + "/" + setting.ID.String() + "/logo.png"
	oldKey := tenantID.String() + "/" + setting.ID.String() + "/logo.svg"
	setting.LogoKey = &oldKey

	settings := &MockStore[models.GeneralSetting, *models.GeneralSetting]{}
	settings.On("Find", mock.Anything, setting.ID, &tenantID).Return(setting, nil).Once()
	settings.On("Update", mock.Anything, mock.MatchedBy(func(s *models.GeneralSetting) bool {
		return s.LogoKey != nil && *s.LogoKey == key
	}), &tenantID).Return(nil).Once()

	body := bytes.NewReader([]byte("png-bytes"))
	objects := &MockObjectStore{}
	objects.On("Put", ctx, "branding", key, body, int64(9), "image/png").Return(nil).Once()
	objects.On("PresignedURL", ctx, "branding", key, logoURLExpiry).Return("https://minio.local/"+key, nil).Once()

	stale := &MockObjectRemover{}
	stale.On("RemoveLater", ctx, "branding", oldKey).Return(nil).Once()

	svc := NewBrandingService(settings, objects, stale, "branding", tenancy.DefaultPolicy(), tenancy.NewGuard(nil))

	resp, err := svc.UploadLogo(ctx, admin, setting.ID, LogoUpload{Filename: "Crest.PNG", Size: 9, Body: body})
	require.NoError(t, err)
	assert.Equal(t, key, resp.LogoKey)
	assert.True(t, strings.HasSuffix(resp.URL, key))

	_, err = svc.UploadLogo(ctx, admin, setting.ID, LogoUpload{Filename: "crest.exe", Size: 9, Body: body})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.UploadLogo(ctx, teacher, setting.ID, LogoUpload{Filename: "crest.png", Size: 9, Body: body})
	assert.ErrorIs(t, err, common.ErrForbidden)

	settings.AssertExpectations(t)
	objects.AssertExpectations(t)
	stale.AssertExpectations(t)
}

func TestUploadLogoLeavesForeignObjectAlone(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	admin, _ := tenancy.NewPrincipal(uuid.New(), tenancy.RoleSchoolAdmin, &tenantID)

	foreign := uuid.New().String() + "/" + uuid.New().String() + "/logo.png"
	setting := &models.GeneralSetting{SchoolName: "Greenfield High", LogoKey: &foreign}
	setting.ID = uuid.New()
	setting.TenantID = tenantID
	key := tenantID.String() + "/" + setting.ID.String() + "/logo.png"

	settings := &MockStore[models.GeneralSetting, *models.GeneralSetting]{}
	settings.On("Find", mock.Anything, setting.ID, &tenantID).Return(setting, nil).Once()
	settings.On("Update", mock.Anything, mock.Anything, &tenantID).Return(nil).Once()

	body := bytes.NewReader([]byte("png-bytes"))
	objects := &MockObjectStore{}
	objects.On("Put", ctx, "branding", key, body, int64(9), "image/png").Return(nil).Once()
	objects.On("PresignedURL", ctx, "branding", key, logoURLExpiry).Return("https://minio.local/"+key, nil).Once()

	stale := &MockObjectRemover{}
	svc := NewBrandingService(settings, objects, stale, "branding", tenancy.DefaultPolicy(), tenancy.NewGuard(nil))

	_, err := svc.UploadLogo(ctx, admin, setting.ID, LogoUpload{Filename: "crest.png", Size: 9, Body: body})
	require.NoError(t, err)
	stale.AssertNotCalled(t, "RemoveLater", mock.Anything, mock.Anything, mock.Anything)
	settings.AssertExpectations(t)
	objects.AssertExpectations(t)
}
