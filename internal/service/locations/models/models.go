package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/domain"
)

// UpdateConfigRequest запрос на обновление настроек планирования локации.
// nil-поля остаются без изменений.
type UpdateConfigRequest struct {
	TimeZone                      *string `json:"timeZone,omitempty"`
	SlotGranularityMinutes        *int    `json:"slotGranularityMinutes,omitempty"`
	CustomerBookingLeadMinutes    *int    `json:"customerBookingLeadMinutes,omitempty"`
	CustomerBookingMaxMonthsAhead *int    `json:"customerBookingMaxMonthsAhead,omitempty"`
	Strategy                      *string `json:"strategy,omitempty"`
	AllowCustomerSelectStaff      *bool   `json:"allowCustomerSelectStaff,omitempty"`
}

// ConfigResponse ответ с настройками планирования локации
type ConfigResponse struct {
	ID                            uuid.UUID `json:"id"`
	Name                          string    `json:"name"`
	TimeZone                      string    `json:"timeZone"`
	SlotGranularityMinutes        int       `json:"slotGranularityMinutes"`
	CustomerBookingLeadMinutes    int       `json:"customerBookingLeadMinutes"`
	CustomerBookingMaxMonthsAhead int       `json:"customerBookingMaxMonthsAhead"`
	Strategy                      string    `json:"strategy"`
	AllowCustomerSelectStaff      bool      `json:"allowCustomerSelectStaff"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.LocationConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                            c.ID,
		Name:                          c.Name,
		TimeZone:                      c.TimeZone,
		SlotGranularityMinutes:        c.SlotGranularityMinutes,
		CustomerBookingLeadMinutes:    c.CustomerBookingLeadMinutes,
		CustomerBookingMaxMonthsAhead: c.CustomerBookingMaxMonthsAhead,
		Strategy:                      string(c.Strategy),
		AllowCustomerSelectStaff:      c.AllowCustomerSelectStaff,

		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
