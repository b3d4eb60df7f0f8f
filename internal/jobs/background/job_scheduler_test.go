package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"schoolerp/internal/metrics"
	"schoolerp/internal/repositories"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEnquiryStats struct {
	mock.Mock
}

func (m *MockEnquiryStats) CountByStatus(ctx context.Context) ([]repositories.EnquiryStatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.EnquiryStatusCount), args.Error(1)
}

func TestRefreshEnquiryGauge(t *testing.T) {
	stats := &MockEnquiryStats{}
	stats.On("CountByStatus", mock.Anything).Return([]repositories.EnquiryStatusCount{
		{Status: "active", Count: 12},
		{Status: "won", Count: 3},
	}, nil).Once()
	stats.On("CountByStatus", mock.Anything).Return(nil, errors.New("db down")).Once()

	js, err := NewJobScheduler(stats, time.Hour, zap.NewNop())
	require.NoError(t, err)

	js.RefreshEnquiryGauge(context.Background())
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.EnquiriesByStatus.WithLabelValues("active")))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.EnquiriesByStatus.WithLabelValues("won")))

	// A failed refresh keeps the last published values.
	js.RefreshEnquiryGauge(context.Background())
	assert.Equal(t, 12.0, testutil.ToFloat64(metrics.EnquiriesByStatus.WithLabelValues("active")))

	stats.AssertExpectations(t)
}
