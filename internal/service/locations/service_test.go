package locations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	"github.com/m04kA/SMC-TimeslotService/internal/service/locations/models"
	"github.com/m04kA/SMC-TimeslotService/pkg/ptr"
)

var testLocationID = uuid.MustParse("10000000-0000-4000-8000-000000000001")

type fakeLocationRepo struct {
	config    *domain.LocationConfig
	configErr error

	updated *domain.LocationConfig
}

func (f *fakeLocationRepo) GetConfig(_ context.Context, _ uuid.UUID) (*domain.LocationConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeLocationRepo) UpdateConfig(_ context.Context, config *domain.LocationConfig) (*domain.LocationConfig, error) {
	stored := *config
	f.updated = &stored
	return &stored, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testConfig() *domain.LocationConfig {
	return &domain.LocationConfig{
		ID:                            testLocationID,
		Name:                          "Тестовая локация",
		TimeZone:                      "Europe/Moscow",
		SlotGranularityMinutes:        30,
		CustomerBookingLeadMinutes:    60,
		CustomerBookingMaxMonthsAhead: 6,
		Strategy:                      domain.StrategyRegular,
		AllowCustomerSelectStaff:      true,
	}
}

func TestGetConfig_Success(t *testing.T) {
	svc := NewService(&fakeLocationRepo{config: testConfig()}, nopLogger{})

	resp, err := svc.GetConfig(context.Background(), testLocationID)
	require.NoError(t, err)

	assert.Equal(t, testLocationID, resp.ID)
	assert.Equal(t, "Europe/Moscow", resp.TimeZone)
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
	assert.Equal(t, string(domain.StrategyRegular), resp.Strategy)
}

func TestGetConfig_NotFound(t *testing.T) {
	svc := NewService(&fakeLocationRepo{configErr: locationRepo.ErrLocationNotFound}, nopLogger{})

	_, err := svc.GetConfig(context.Background(), testLocationID)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestUpdateConfig_PartialUpdate(t *testing.T) {
	repo := &fakeLocationRepo{config: testConfig()}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.UpdateConfig(context.Background(), testLocationID, &models.UpdateConfigRequest{
		SlotGranularityMinutes: ptr.Ptr(15),
		Strategy:               ptr.Ptr(string(domain.StrategyReduceGaps)),
	})
	require.NoError(t, err)

	assert.Equal(t, 15, resp.SlotGranularityMinutes)
	assert.Equal(t, string(domain.StrategyReduceGaps), resp.Strategy)
	// Не тронутые поля сохраняют прежние значения
	assert.Equal(t, "Europe/Moscow", resp.TimeZone)
	assert.Equal(t, 60, resp.CustomerBookingLeadMinutes)

	require.NotNil(t, repo.updated)
	assert.Equal(t, domain.StrategyReduceGaps, repo.updated.Strategy)
}

func TestUpdateConfig_InvalidTimeZone(t *testing.T) {
	repo := &fakeLocationRepo{config: testConfig()}
	svc := NewService(repo, nopLogger{})

	_, err := svc.UpdateConfig(context.Background(), testLocationID, &models.UpdateConfigRequest{
		TimeZone: ptr.Ptr("Mars/Olympus"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, repo.updated)
}

func TestUpdateConfig_GranularityOutOfRange(t *testing.T) {
	repo := &fakeLocationRepo{config: testConfig()}
	svc := NewService(repo, nopLogger{})

	for _, v := range []int{0, 4, 241} {
		_, err := svc.UpdateConfig(context.Background(), testLocationID, &models.UpdateConfigRequest{
			SlotGranularityMinutes: ptr.Ptr(v),
		})
		assert.ErrorIs(t, err, ErrInvalidInput, "granularity %d", v)
	}
}

func TestUpdateConfig_UnknownStrategy(t *testing.T) {
	repo := &fakeLocationRepo{config: testConfig()}
	svc := NewService(repo, nopLogger{})

	_, err := svc.UpdateConfig(context.Background(), testLocationID, &models.UpdateConfigRequest{
		Strategy: ptr.Ptr("PACK_EVERYTHING"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateConfig_DisableStaffSelection(t *testing.T) {
	repo := &fakeLocationRepo{config: testConfig()}
	svc := NewService(repo, nopLogger{})

	resp, err := svc.UpdateConfig(context.Background(), testLocationID, &models.UpdateConfigRequest{
		AllowCustomerSelectStaff: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, resp.AllowCustomerSelectStaff)
}

func TestUpdateConfig_NotFound(t *testing.T) {
	svc := NewService(&fakeLocationRepo{configErr: locationRepo.ErrLocationNotFound}, nopLogger{})

	_, err := svc.UpdateConfig(context.Background(), testLocationID, &models.UpdateConfigRequest{})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
