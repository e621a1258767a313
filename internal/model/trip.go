package model

import (
	"time"

	"github.com/google/uuid"
)

// TripType categorises a logged drive.
type TripType string

const (
	TripPersonal TripType = "Personal"
	TripBusiness TripType = "Business"
	TripCommute  TripType = "Commute"
	TripMedical  TripType = "Medical"
	TripCharity  TripType = "Charity"
	TripMoving   TripType = "Moving"
)

var tripTypes = map[TripType]bool{
	TripPersonal: true, TripBusiness: true, TripCommute: true,
	TripMedical: true, TripCharity: true, TripMoving: true,
}

// ParseTripType maps a raw string to a TripType, falling back to personal
// for unknown values.
func ParseTripType(raw string) TripType {
	if tripTypes[TripType(raw)] {
		return TripType(raw)
	}
	return TripPersonal
}

// IsTaxDeductible reports whether the IRS recognises the trip type as
// deductible mileage.
func (t TripType) IsTaxDeductible() bool {
	switch t {
	case TripBusiness, TripMedical, TripCharity, TripMoving:
		return true
	}
	return false
}

// BusinessMileageRate is the IRS standard mileage rate for business trips,
// in currency per distance unit (2024 figure).
const BusinessMileageRate = 0.67

// Trip is one logged drive. A trip with no end odometer is still active.
type Trip struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	Date          time.Time
	StartOdometer float64
	EndOdometer   *float64

	// Distance is an explicitly recorded override; when absent the distance
	// is derived from the odometer span.
	Distance *float64

	TripType      TripType
	Purpose       *string
	StartLocation *string
	EndLocation   *string
	Notes         *string

	IsActive  bool
	CreatedAt time.Time
}

// NewTrip starts a trip for the given vehicle.
func NewTrip(vehicleID uuid.UUID, date time.Time, startOdometer float64) *Trip {
	return &Trip{
		ID:            uuid.New(),
		VehicleID:     vehicleID,
		Date:          date,
		StartOdometer: startOdometer,
		TripType:      TripPersonal,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
}

// CalculatedDistance returns the recorded distance override when present,
// the odometer span when the trip has ended, and zero otherwise.
func (t *Trip) CalculatedDistance() float64 {
	if t.Distance != nil {
		return *t.Distance
	}
	if t.EndOdometer != nil {
		return *t.EndOdometer - t.StartOdometer
	}
	return 0
}

// End closes the trip at the given odometer reading.
func (t *Trip) End(endOdometer float64, endLocation *string) {
	distance := endOdometer - t.StartOdometer
	t.EndOdometer = &endOdometer
	t.Distance = &distance
	t.EndLocation = endLocation
	t.IsActive = false
}

// Reimbursement returns the standard-rate reimbursement for a business trip.
// It reports false for non-business trips.
func (t *Trip) Reimbursement() (float64, bool) {
	if t.TripType != TripBusiness {
		return 0, false
	}
	return t.CalculatedDistance() * BusinessMileageRate, true
}
