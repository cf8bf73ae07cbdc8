package domain

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/pkg/types"
)

// TimeslotAssignment names the staff member chosen for one service of the
// chain together with its local start and end times
type TimeslotAssignment struct {
	ServiceID  uuid.UUID
	StaffID    uuid.UUID
	StartLocal types.TimeString
	EndLocal   types.TimeString
}

// Timeslot is one valid start option for the whole requested service chain:
// overall local start/end plus the per-service assignment detail
type Timeslot struct {
	StartLocal  types.TimeString
	EndLocal    types.TimeString
	TimeZone    string
	Assignments []TimeslotAssignment
}
