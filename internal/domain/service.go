package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationService represents a bookable service offered by a location
type LocationService struct {
	ID              uuid.UUID
	LocationID      uuid.UUID
	Name            string
	DurationMinutes int
	PriceAmount     int64 // в минимальных единицах валюты
	PriceCurrency   string
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceRequest is one element of the ordered service chain a customer wants
// to book in a single visit. StaffID pins the service to a specific staff
// member; nil means any capable staff member.
type ServiceRequest struct {
	ServiceID uuid.UUID
	StaffID   *uuid.UUID
	Order     int
}

// StaffCapability associates a staff member with a service they are qualified
// to perform. Used to build the candidate staff set for unpinned requests.
type StaffCapability struct {
	StaffID   uuid.UUID
	ServiceID uuid.UUID
}
