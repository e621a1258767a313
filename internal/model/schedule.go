package model

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceSchedule is a recurring service cadence for one vehicle. It does
// not store the next-due value; due status is recomputed by projecting the
// last-service anchor forward by the configured interval and comparing to the
// current date and odometer.
type MaintenanceSchedule struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	ServiceType       ServiceType
	CustomServiceName *string

	MileageInterval    *float64
	TimeIntervalMonths *int

	LastServiceDate     *time.Time
	LastServiceOdometer *float64

	IsEnabled bool
	Notes     *string
	CreatedAt time.Time
}

// NewMaintenanceSchedule creates a schedule for the given vehicle. When no
// intervals are supplied the service type's default cadence is used.
func NewMaintenanceSchedule(vehicleID uuid.UUID, serviceType ServiceType) *MaintenanceSchedule {
	s := &MaintenanceSchedule{
		ID:          uuid.New(),
		VehicleID:   vehicleID,
		ServiceType: serviceType,
		IsEnabled:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if interval, ok := serviceType.DefaultMileageInterval(); ok {
		s.MileageInterval = &interval
	}
	if months, ok := serviceType.DefaultTimeIntervalMonths(); ok {
		s.TimeIntervalMonths = &months
	}
	return s
}

// DisplayName returns the custom service name for custom schedules, otherwise
// the service type's display name.
func (s *MaintenanceSchedule) DisplayName() string {
	if s.ServiceType == ServiceCustom && s.CustomServiceName != nil {
		return *s.CustomServiceName
	}
	return s.ServiceType.DisplayName()
}

// NextDueOdometer projects the odometer reading at which the service is next
// due. It reports false when either the mileage interval or the last-service
// odometer anchor is missing.
func (s *MaintenanceSchedule) NextDueOdometer() (float64, bool) {
	if s.MileageInterval == nil || s.LastServiceOdometer == nil {
		return 0, false
	}
	return *s.LastServiceOdometer + *s.MileageInterval, true
}

// NextDueDate projects the date the service is next due. It reports false
// when either the time interval or the last-service date anchor is missing.
func (s *MaintenanceSchedule) NextDueDate() (time.Time, bool) {
	if s.TimeIntervalMonths == nil || s.LastServiceDate == nil {
		return time.Time{}, false
	}
	return s.LastServiceDate.AddDate(0, *s.TimeIntervalMonths, 0), true
}

// IsDue reports whether the service is due by mileage or by date.
func (s *MaintenanceSchedule) IsDue(currentOdometer float64, now time.Time) bool {
	if next, ok := s.NextDueOdometer(); ok && currentOdometer >= next {
		return true
	}
	if next, ok := s.NextDueDate(); ok && !now.Before(next) {
		return true
	}
	return false
}

// DistanceUntilDue returns how far the vehicle can travel before the service
// is due, floored at zero. Reports false when no mileage projection exists.
func (s *MaintenanceSchedule) DistanceUntilDue(currentOdometer float64) (float64, bool) {
	next, ok := s.NextDueOdometer()
	if !ok {
		return 0, false
	}
	return max(0, next-currentOdometer), true
}

// DaysUntilDue returns whole days until the service is due by date; negative
// when overdue. Reports false when no date projection exists.
func (s *MaintenanceSchedule) DaysUntilDue(now time.Time) (int, bool) {
	next, ok := s.NextDueDate()
	if !ok {
		return 0, false
	}
	return int(next.Sub(now).Hours() / 24), true
}
