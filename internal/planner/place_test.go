package planner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
)

func TestPlaceChainAt_ExactStart(t *testing.T) {
	in := baseInput(domain.StrategyRegular)

	chain, err := PlaceChainAt(in, utc(16, 10, 30))
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, serviceXID, chain[0].ServiceID)
	assert.Equal(t, staffAID, chain[0].StaffID)
	assert.Equal(t, utc(16, 10, 30), chain[0].Start)
	assert.Equal(t, utc(16, 11, 30), chain[0].End)
}

func TestPlaceChainAt_OffGridStartAllowed(t *testing.T) {
	// Выравнивание по сетке слотов проверяется до размещения;
	// само размещение принимает любой момент внутри доступности
	in := baseInput(domain.StrategyRegular)

	chain, err := PlaceChainAt(in, utc(16, 9, 10))
	require.NoError(t, err)
	assert.Equal(t, utc(16, 9, 10), chain[0].Start)
}

func TestPlaceChainAt_ChainTail(t *testing.T) {
	in := baseInput(domain.StrategyRegular)
	in.Requests = []domain.ServiceRequest{
		{ServiceID: serviceXID, Order: 1},
		{ServiceID: serviceYID, Order: 2},
	}
	in.Services = append(in.Services,
		domain.LocationService{ID: serviceYID, LocationID: locationID, Name: "Styling", DurationMinutes: 30, IsActive: true},
	)

	chain, err := PlaceChainAt(in, utc(16, 10, 0))
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, utc(16, 10, 0), chain[0].Start)
	assert.Equal(t, utc(16, 11, 0), chain[0].End)
	assert.Equal(t, utc(16, 11, 0), chain[1].Start)
	assert.Equal(t, utc(16, 11, 30), chain[1].End)
	assert.Equal(t, chain[0].StaffID, chain[1].StaffID)
}

func TestPlaceChainAt_UnplaceableOutsideSchedule(t *testing.T) {
	in := baseInput(domain.StrategyRegular)

	// 11:30 + 60 минут выходит за конец рабочего окна 12:00
	_, err := PlaceChainAt(in, utc(16, 11, 30))
	assert.ErrorIs(t, err, ErrChainUnplaceable)
}

func TestPlaceChainAt_ConflictWithExistingAssignment(t *testing.T) {
	in := baseInput(domain.StrategyRegular)
	in.Assignments = []domain.AssignmentInterval{
		{StaffID: staffAID, StartTime: utc(16, 10, 0), EndTime: utc(16, 11, 0)},
	}

	_, err := PlaceChainAt(in, utc(16, 10, 30))
	assert.ErrorIs(t, err, ErrChainUnplaceable)
}

func TestPlaceChainAt_PinnedStaffBusy(t *testing.T) {
	in := baseInput(domain.StrategyRegular)
	in.Staff = append(in.Staff,
		domain.Staff{ID: staffBID, LocationID: locationID, Name: "Boris", Schedule: weekdaySchedule(day("09:00", "12:00"))},
	)
	pinned := staffAID
	in.Requests = []domain.ServiceRequest{
		{ServiceID: serviceXID, StaffID: &pinned, Order: 1},
	}
	in.Assignments = []domain.AssignmentInterval{
		{StaffID: staffAID, StartTime: utc(16, 10, 0), EndTime: utc(16, 11, 0)},
	}

	// Закреплённая Анна занята, хотя свободный Борис мог бы выполнить услугу
	_, err := PlaceChainAt(in, utc(16, 10, 0))
	assert.ErrorIs(t, err, ErrPinnedStaffBusy)
}

func TestPlaceChainAt_FallsBackToFreeStaff(t *testing.T) {
	in := baseInput(domain.StrategyRegular)
	in.Staff = append(in.Staff,
		domain.Staff{ID: staffBID, LocationID: locationID, Name: "Boris", Schedule: weekdaySchedule(day("09:00", "12:00"))},
	)
	in.Assignments = []domain.AssignmentInterval{
		{StaffID: staffAID, StartTime: utc(16, 9, 0), EndTime: utc(16, 12, 0)},
	}

	// Без закрепления занятость Анны не мешает: услугу берёт Борис
	chain, err := PlaceChainAt(in, utc(16, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, staffBID, chain[0].StaffID)
}

func TestPlaceChainAt_UnknownService(t *testing.T) {
	in := baseInput(domain.StrategyRegular)
	in.Requests = []domain.ServiceRequest{
		{ServiceID: uuid.New(), Order: 1},
	}

	_, err := PlaceChainAt(in, utc(16, 9, 0))
	assert.ErrorIs(t, err, ErrChainUnplaceable)
}
