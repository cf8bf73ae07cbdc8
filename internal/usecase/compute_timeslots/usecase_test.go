package compute_timeslots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// Понедельник 16 марта 2026, локация в UTC
const testDate = "2026-03-16"

var (
	testLocationID = uuid.MustParse("10000000-0000-4000-8000-000000000001")
	testStaffID    = uuid.MustParse("20000000-0000-4000-8000-00000000000a")
	testServiceID  = uuid.MustParse("30000000-0000-4000-8000-00000000000a")
)

type fakeLocationRepo struct {
	config    *domain.LocationConfig
	configErr error
	services  []*domain.LocationService
	closures  []*domain.LocationClosure
}

func (f *fakeLocationRepo) GetConfig(_ context.Context, _ uuid.UUID) (*domain.LocationConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeLocationRepo) GetServicesByIDs(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]*domain.LocationService, error) {
	return f.services, nil
}

func (f *fakeLocationRepo) GetClosuresForDate(_ context.Context, _ uuid.UUID, _ string) ([]*domain.LocationClosure, error) {
	return f.closures, nil
}

type fakeStaffRepo struct {
	staff            []*domain.Staff
	overrides        []*domain.ScheduleOverride
	unavailabilities []*domain.Unavailability
	capabilities     []*domain.StaffCapability
}

func (f *fakeStaffRepo) GetByLocation(_ context.Context, _ uuid.UUID) ([]*domain.Staff, error) {
	return f.staff, nil
}

func (f *fakeStaffRepo) GetOverridesForDate(_ context.Context, _ []uuid.UUID, _ string) ([]*domain.ScheduleOverride, error) {
	return f.overrides, nil
}

func (f *fakeStaffRepo) GetUnavailabilitiesForDate(_ context.Context, _ []uuid.UUID, _ string) ([]*domain.Unavailability, error) {
	return f.unavailabilities, nil
}

func (f *fakeStaffRepo) GetCapabilitiesByLocation(_ context.Context, _ uuid.UUID) ([]*domain.StaffCapability, error) {
	return f.capabilities, nil
}

type fakeBookingRepo struct {
	assignments []*domain.AssignmentInterval
}

func (f *fakeBookingRepo) GetAssignmentIntervalsForRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.AssignmentInterval, error) {
	return f.assignments, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mondaySchedule(start, end types.TimeString) *domain.WeekSchedule {
	return &domain.WeekSchedule{
		Mon: []domain.DayInterval{{Start: start, End: end}},
	}
}

func testConfig() *domain.LocationConfig {
	return &domain.LocationConfig{
		ID:                            testLocationID,
		Name:                          "Тестовая локация",
		TimeZone:                      "UTC",
		SlotGranularityMinutes:        30,
		CustomerBookingLeadMinutes:    0,
		CustomerBookingMaxMonthsAhead: 6,
		Strategy:                      domain.StrategyRegular,
		AllowCustomerSelectStaff:      true,
	}
}

func testFixtures() (*fakeLocationRepo, *fakeStaffRepo, *fakeBookingRepo) {
	locations := &fakeLocationRepo{
		config: testConfig(),
		services: []*domain.LocationService{{
			ID:              testServiceID,
			LocationID:      testLocationID,
			Name:            "Стрижка",
			DurationMinutes: 60,
			PriceAmount:     150000,
			PriceCurrency:   "RUB",
			IsActive:        true,
		}},
	}
	staff := &fakeStaffRepo{
		staff: []*domain.Staff{{
			ID:         testStaffID,
			LocationID: testLocationID,
			Name:       "Анна",
			Schedule:   mondaySchedule("09:00", "12:00"),
		}},
	}
	return locations, staff, &fakeBookingRepo{}
}

func newTestUseCase(locations *fakeLocationRepo, staff *fakeStaffRepo, bookings *fakeBookingRepo) *UseCase {
	uc := NewUseCase(locations, staff, bookings, nopLogger{})
	return uc.WithTimeProvider(fixedTime{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
}

func baseRequest() *Request {
	return &Request{
		LocationID: testLocationID,
		Date:       testDate,
		Services:   []ServiceItem{{ServiceID: testServiceID, Order: 0}},
	}
}

func TestExecute_Success(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, testLocationID, resp.LocationID)
	assert.Equal(t, testDate, resp.Date)
	assert.Equal(t, "UTC", resp.TimeZone)
	assert.Equal(t, string(domain.StrategyRegular), resp.Strategy)

	require.Len(t, resp.Timeslots, 5)
	assert.Equal(t, types.TimeString("09:00"), resp.Timeslots[0].StartLocal)
	assert.Equal(t, types.TimeString("10:00"), resp.Timeslots[0].EndLocal)
	assert.Equal(t, types.TimeString("11:00"), resp.Timeslots[4].StartLocal)

	require.Len(t, resp.Timeslots[0].Assignments, 1)
	assert.Equal(t, testStaffID, resp.Timeslots[0].Assignments[0].StaffID)
	assert.Equal(t, testServiceID, resp.Timeslots[0].Assignments[0].ServiceID)
}

func TestExecute_ClosedDateReturnsEmptyResult(t *testing.T) {
	locations, staff, bookings := testFixtures()
	locations.closures = []*domain.LocationClosure{{
		ID:         uuid.New(),
		LocationID: testLocationID,
		StartDate:  testDate,
		EndDate:    testDate,
	}}
	uc := newTestUseCase(locations, staff, bookings)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Empty(t, resp.Timeslots)
	assert.NotNil(t, resp.Timeslots)
	assert.Equal(t, string(domain.StrategyRegular), resp.Strategy)
	assert.Equal(t, "UTC", resp.TimeZone)
}

func TestExecute_LocationNotFound(t *testing.T) {
	locations, staff, bookings := testFixtures()
	locations.configErr = locationRepo.ErrLocationNotFound
	uc := newTestUseCase(locations, staff, bookings)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_UnknownService(t *testing.T) {
	locations, staff, bookings := testFixtures()
	locations.services = nil
	uc := newTestUseCase(locations, staff, bookings)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	locations, staff, bookings := testFixtures()
	locations.services[0].IsActive = false
	uc := newTestUseCase(locations, staff, bookings)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_UnknownPinnedStaff(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	unknown := uuid.New()
	req := baseRequest()
	req.Services[0].StaffID = &unknown

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_StaffSelectionDisabledIgnoresPins(t *testing.T) {
	locations, staff, bookings := testFixtures()
	locations.config.AllowCustomerSelectStaff = false
	uc := newTestUseCase(locations, staff, bookings)

	// Закрепление за несуществующим сотрудником молча снимается
	unknown := uuid.New()
	req := baseRequest()
	req.Services[0].StaffID = &unknown

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Timeslots, 5)
	assert.Equal(t, testStaffID, resp.Timeslots[0].Assignments[0].StaffID)
}

func TestExecute_InvalidDate(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	req := baseRequest()
	req.Date = "16.03.2026"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_EmptyServiceChain(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	req := baseRequest()
	req.Services = nil

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ExistingAssignmentNarrowsResult(t *testing.T) {
	locations, staff, bookings := testFixtures()
	bookings.assignments = []*domain.AssignmentInterval{{
		StaffID:   testStaffID,
		StartTime: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC),
	}}
	uc := newTestUseCase(locations, staff, bookings)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, resp.Timeslots, 1)
	assert.Equal(t, types.TimeString("11:00"), resp.Timeslots[0].StartLocal)
}
