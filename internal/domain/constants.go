package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes        = 15
	DefaultCustomerBookingLeadMinutes    = 60
	DefaultCustomerBookingMaxMonthsAhead = 6
	DefaultGapStrategy                   = StrategyRegular
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240
	MinBookingLeadMinutes     = 0
	MaxBookingLeadMinutes     = 10080 // неделя
	MinBookingMaxMonthsAhead  = 0
	MaxBookingMaxMonthsAhead  = 24
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxServicesPerChain       = 10
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
)

// MaxTimeslotResults верхняя граница числа слотов в одном ответе планировщика
// При очень мелкой гранулярности перебор обрезается: результат трактуется как
// "первые N валидных слотов", а не "все валидные слоты"
const MaxTimeslotResults = 300

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих временной интервал
// Используется для фильтрации при расчёте доступности и проверке конфликтов
var InactiveStatuses = []BookingStatus{
	StatusCancelledByCustomer,
	StatusCancelledByCompany,
	StatusNoShow,
}

// ActiveStatuses список статусов, занимающих временной интервал
var ActiveStatuses = []BookingStatus{
	StatusAwaitingPayment,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
