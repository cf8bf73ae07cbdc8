package domain

import (
	"time"

	"github.com/google/uuid"
)

// GapStrategy controls how tightly consecutive bookings must pack together
type GapStrategy string

const (
	// StrategyRegular no gap constraint, every feasible slot is offered
	StrategyRegular GapStrategy = "REGULAR"

	// StrategyReduceGaps forbids sliver gaps shorter than one slot granularity
	// on either side of the chain
	StrategyReduceGaps GapStrategy = "REDUCE_GAPS"

	// StrategyEliminateGaps only offers chains touching a boundary of the
	// staff member's availability on at least one side
	StrategyEliminateGaps GapStrategy = "ELIMINATE_GAPS"
)

// Valid returns true if the strategy is one of the known values
func (s GapStrategy) Valid() bool {
	switch s {
	case StrategyRegular, StrategyReduceGaps, StrategyEliminateGaps:
		return true
	}
	return false
}

// LocationConfig represents the booking configuration of a single location
type LocationConfig struct {
	ID                            uuid.UUID
	Name                          string
	TimeZone                      string // IANA идентификатор, например "Europe/Berlin"
	SlotGranularityMinutes        int
	CustomerBookingLeadMinutes    int
	CustomerBookingMaxMonthsAhead int
	Strategy                      GapStrategy
	AllowCustomerSelectStaff      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocationClosure represents an inclusive local date range during which the
// whole location is closed (holidays, renovations)
type LocationClosure struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	StartDate  string // "YYYY-MM-DD" в локальном времени локации
	EndDate    string
	Reason     *string
}

// ContainsDate returns true if the local calendar date falls inside the
// inclusive closure range. ISO date strings compare correctly as strings.
func (c *LocationClosure) ContainsDate(dateISO string) bool {
	return dateISO >= c.StartDate && dateISO <= c.EndDate
}
