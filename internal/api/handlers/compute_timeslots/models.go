package compute_timeslots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TimeslotService/internal/cache"
	computeTimeslots "github.com/m04kA/SMC-TimeslotService/internal/usecase/compute_timeslots"
)

// ServiceItem HTTP модель одного элемента цепочки услуг
type ServiceItem struct {
	ServiceID uuid.UUID  `json:"serviceId"`
	StaffID   *uuid.UUID `json:"staffId,omitempty"`
	Order     int        `json:"order"`
}

// TimeslotsRequest HTTP request model
type TimeslotsRequest struct {
	Date     string        `json:"date"` // "YYYY-MM-DD"
	Services []ServiceItem `json:"services"`
}

// ToUseCaseRequest конвертирует HTTP request в запрос use case
func (r *TimeslotsRequest) ToUseCaseRequest(locationID uuid.UUID) *computeTimeslots.Request {
	services := make([]computeTimeslots.ServiceItem, len(r.Services))
	for i, s := range r.Services {
		services[i] = computeTimeslots.ServiceItem{
			ServiceID: s.ServiceID,
			StaffID:   s.StaffID,
			Order:     s.Order,
		}
	}

	return &computeTimeslots.Request{
		LocationID: locationID,
		Date:       r.Date,
		Services:   services,
	}
}

// FingerprintServices конвертирует цепочку в форму для отпечатка запроса
func (r *TimeslotsRequest) FingerprintServices() []cache.FingerprintService {
	services := make([]cache.FingerprintService, len(r.Services))
	for i, s := range r.Services {
		services[i] = cache.FingerprintService{
			ServiceID: s.ServiceID,
			StaffID:   s.StaffID,
			Order:     s.Order,
		}
	}
	return services
}

// TimeslotAssignment HTTP модель назначения внутри слота
type TimeslotAssignment struct {
	ServiceID  uuid.UUID `json:"serviceId"`
	StaffID    uuid.UUID `json:"staffId"`
	StartLocal string    `json:"startLocal"` // "HH:MM"
	EndLocal   string    `json:"endLocal"`
}

// Timeslot HTTP модель одного валидного слота
type Timeslot struct {
	StartLocal  string               `json:"startLocal"`
	EndLocal    string               `json:"endLocal"`
	Assignments []TimeslotAssignment `json:"assignments"`
}

// TimeslotsResponse HTTP response model
type TimeslotsResponse struct {
	LocationID uuid.UUID  `json:"locationId"`
	Date       string     `json:"date"`
	TimeZone   string     `json:"timeZone"`
	Strategy   string     `json:"strategy"`
	Timeslots  []Timeslot `json:"timeslots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *computeTimeslots.Response) *TimeslotsResponse {
	timeslots := make([]Timeslot, len(resp.Timeslots))
	for i, ts := range resp.Timeslots {
		assignments := make([]TimeslotAssignment, len(ts.Assignments))
		for j, a := range ts.Assignments {
			assignments[j] = TimeslotAssignment{
				ServiceID:  a.ServiceID,
				StaffID:    a.StaffID,
				StartLocal: a.StartLocal.String(),
				EndLocal:   a.EndLocal.String(),
			}
		}
		timeslots[i] = Timeslot{
			StartLocal:  ts.StartLocal.String(),
			EndLocal:    ts.EndLocal.String(),
			Assignments: assignments,
		}
	}

	return &TimeslotsResponse{
		LocationID: resp.LocationID,
		Date:       resp.Date,
		TimeZone:   resp.TimeZone,
		Strategy:   resp.Strategy,
		Timeslots:  timeslots,
	}
}
