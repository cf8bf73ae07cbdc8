package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-TimeslotService/internal/infra/storage/location"
	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// Понедельник 16 марта 2026, локация в UTC
const testDate = "2026-03-16"

var (
	testCustomerID = uuid.MustParse("00000000-0000-4000-8000-0000000000cc")
	testLocationID = uuid.MustParse("10000000-0000-4000-8000-000000000001")
	testStaffID    = uuid.MustParse("20000000-0000-4000-8000-00000000000a")
	otherStaffID   = uuid.MustParse("20000000-0000-4000-8000-00000000000b")
	testServiceID  = uuid.MustParse("30000000-0000-4000-8000-00000000000a")
	otherServiceID = uuid.MustParse("30000000-0000-4000-8000-00000000000b")
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

	createErr          error
	createdBooking     *domain.Booking
	createdAssignments []*domain.BookingAssignment
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	stored := *booking
	stored.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stored.UpdatedAt = stored.CreatedAt
	f.createdBooking = &stored
	return &stored, nil
}

func (f *fakeBookingRepo) CreateAssignments(_ context.Context, assignments []*domain.BookingAssignment) error {
	f.createdAssignments = assignments
	return nil
}

func (f *fakeBookingRepo) GetAssignmentIntervalsForRange(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.AssignmentInterval, error) {
	return f.assignments, nil
}

// Каждое назначение в фикстуре принадлежит активному бронированию локации
func (f *fakeBookingRepo) HasActiveBookingOverlap(_ context.Context, _ uuid.UUID, from, to time.Time) (bool, error) {
	for _, a := range f.assignments {
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			return true, nil
		}
	}
	return false, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
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

func testFixtures() (*fakeLocationRepo, *fakeStaffRepo, *fakeBookingRepo, *fakeTxManager) {
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
	return locations, staff, &fakeBookingRepo{}, &fakeTxManager{}
}

func newTestUseCase(locations *fakeLocationRepo, staff *fakeStaffRepo, bookings *fakeBookingRepo, tx *fakeTxManager) *UseCase {
	uc := NewUseCase(locations, staff, bookings, tx, nopLogger{})
	return uc.WithTimeProvider(fixedTime{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
}

func baseRequest() *Request {
	return &Request{
		CustomerID: testCustomerID,
		LocationID: testLocationID,
		Date:       testDate,
		StartTime:  "09:00",
		Services:   []ServiceItem{{ServiceID: testServiceID, Order: 0}},
	}
}

func TestExecute_Success(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	uc := newTestUseCase(locations, staff, bookings, tx)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, testCustomerID, resp.CustomerID)
	assert.Equal(t, testLocationID, resp.LocationID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, testDate, resp.Date)
	assert.Equal(t, types.TimeString("09:00"), resp.StartLocal)
	assert.Equal(t, types.TimeString("10:00"), resp.EndLocal)
	assert.Equal(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), resp.StartUTC)
	assert.Equal(t, time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC), resp.EndUTC)
	assert.Equal(t, int64(150000), resp.TotalAmount)
	assert.Equal(t, "RUB", resp.Currency)

	require.Len(t, resp.Assignments, 1)
	assert.Equal(t, testStaffID, resp.Assignments[0].StaffID)
	assert.Equal(t, int64(150000), resp.Assignments[0].PriceAmount)
	assert.Equal(t, 60, resp.Assignments[0].DurationMinutes)

	// Снимок сохранённого бронирования
	require.NotNil(t, bookings.createdBooking)
	assert.Equal(t, 540, bookings.createdBooking.LocalStartMinutes)
	assert.Equal(t, 600, bookings.createdBooking.LocalEndMinutes)
	assert.Equal(t, testDate, bookings.createdBooking.LocalEndDate)

	require.Len(t, bookings.createdAssignments, 1)
	assert.Equal(t, bookings.createdBooking.ID, bookings.createdAssignments[0].BookingID)
	assert.Equal(t, "RUB", bookings.createdAssignments[0].PriceAtBookingCurrency)
}

func TestExecute_ChainOfTwoServices(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.services = append(locations.services, &domain.LocationService{
		ID:              otherServiceID,
		LocationID:      testLocationID,
		Name:            "Укладка",
		DurationMinutes: 30,
		PriceAmount:     50000,
		PriceCurrency:   "RUB",
		IsActive:        true,
	})
	uc := newTestUseCase(locations, staff, bookings, tx)

	req := baseRequest()
	req.Services = []ServiceItem{
		{ServiceID: testServiceID, Order: 0},
		{ServiceID: otherServiceID, Order: 1},
	}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, types.TimeString("10:30"), resp.EndLocal)
	assert.Equal(t, int64(200000), resp.TotalAmount)
	require.Len(t, resp.Assignments, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Assignments[0].StartLocal)
	assert.Equal(t, types.TimeString("10:00"), resp.Assignments[1].StartLocal)
	assert.Equal(t, types.TimeString("10:30"), resp.Assignments[1].EndLocal)
}

func TestExecute_MisalignedStartTime(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	req := baseRequest()
	req.StartTime = "09:10"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_LocationNotFound(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.configErr = locationRepo.ErrLocationNotFound
	uc := newTestUseCase(locations, staff, bookings, tx)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestExecute_LocationClosed(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.closures = []*domain.LocationClosure{{
		ID:         uuid.New(),
		LocationID: testLocationID,
		StartDate:  testDate,
		EndDate:    testDate,
	}}
	uc := newTestUseCase(locations, staff, bookings, tx)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrLocationClosed)
}

func TestExecute_LeadTimeViolation(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.config.CustomerBookingLeadMinutes = 60
	uc := NewUseCase(locations, staff, bookings, tx, nopLogger{}).
		WithTimeProvider(fixedTime{t: time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)})

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_LeadTimeBoundaryAllowed(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.config.CustomerBookingLeadMinutes = 60
	uc := NewUseCase(locations, staff, bookings, tx, nopLogger{}).
		WithTimeProvider(fixedTime{t: time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)})

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.NoError(t, err)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.config.CustomerBookingMaxMonthsAhead = 0
	uc := newTestUseCase(locations, staff, bookings, tx)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_SlotConflict(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	bookings.assignments = []*domain.AssignmentInterval{{
		StaffID:   testStaffID,
		StartTime: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
	}}
	uc := newTestUseCase(locations, staff, bookings, tx)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_PinnedStaffConflict(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	staff.staff = append(staff.staff, &domain.Staff{
		ID:         otherStaffID,
		LocationID: testLocationID,
		Name:       "Борис",
		Schedule:   mondaySchedule("09:00", "12:00"),
	})
	bookings.assignments = []*domain.AssignmentInterval{{
		StaffID:   testStaffID,
		StartTime: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
	}}
	uc := newTestUseCase(locations, staff, bookings, tx)

	req := baseRequest()
	req.Services[0].StaffID = &testStaffID

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffConflict)
}

func TestExecute_LocationBusyRejectsEvenWithFreeStaff(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	staff.staff = append(staff.staff, &domain.Staff{
		ID:         otherStaffID,
		LocationID: testLocationID,
		Name:       "Борис",
		Schedule:   mondaySchedule("09:00", "12:00"),
	})
	// Борис занят чужим бронированием; цепочка разместилась бы на свободной
	// Анне, но интервал локации уже занят — это конфликт слота
	bookings.assignments = []*domain.AssignmentInterval{{
		StaffID:   otherStaffID,
		StartTime: time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
	}}
	uc := newTestUseCase(locations, staff, bookings, tx)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Nil(t, bookings.createdBooking)
}

func TestExecute_AdjacentBookingAllowed(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	// Существующее бронирование 10:00-11:00: интервалы полуоткрытые,
	// цепочка 09:00-10:00 касается его, но не пересекает
	bookings.assignments = []*domain.AssignmentInterval{{
		StaffID:   testStaffID,
		StartTime: time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC),
	}}
	uc := newTestUseCase(locations, staff, bookings, tx)

	resp, err := uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), resp.EndLocal)
}

func TestExecute_StaffSelectionDisabledIgnoresPins(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.config.AllowCustomerSelectStaff = false
	uc := newTestUseCase(locations, staff, bookings, tx)

	// Закрепление за несуществующим сотрудником молча снимается
	unknown := uuid.New()
	req := baseRequest()
	req.Services[0].StaffID = &unknown

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, testStaffID, resp.Assignments[0].StaffID)
}

func TestExecute_UnknownPinnedStaff(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	unknown := uuid.New()
	req := baseRequest()
	req.Services[0].StaffID = &unknown

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_MixedCurrencies(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	locations.services = append(locations.services, &domain.LocationService{
		ID:              otherServiceID,
		LocationID:      testLocationID,
		Name:            "Массаж",
		DurationMinutes: 30,
		PriceAmount:     4000,
		PriceCurrency:   "EUR",
		IsActive:        true,
	})
	uc := newTestUseCase(locations, staff, bookings, tx)

	req := baseRequest()
	req.Services = []ServiceItem{
		{ServiceID: testServiceID, Order: 0},
		{ServiceID: otherServiceID, Order: 1},
	}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepoOverlapMapsToConflict(t *testing.T) {
	locations, staff, bookings, tx := testFixtures()
	bookings.createErr = bookingRepo.ErrAssignmentOverlap
	uc := newTestUseCase(locations, staff, bookings, tx)

	_, err := uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, ErrStaffConflict)
}

func TestExecute_MissingCustomer(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	req := baseRequest()
	req.CustomerID = uuid.Nil

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_StartAtEndOfDayRejected(t *testing.T) {
	uc := newTestUseCase(testFixtures())

	req := baseRequest()
	req.StartTime = "24:00"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
