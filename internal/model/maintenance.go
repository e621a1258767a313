package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType enumerates the known maintenance services. ServiceCustom is the
// escape hatch for anything not listed; it carries a free-text name on the
// record itself.
type ServiceType string

const (
	ServiceOilChange           ServiceType = "oil_change"
	ServiceTireRotation        ServiceType = "tire_rotation"
	ServiceTireReplacement     ServiceType = "tire_replacement"
	ServiceBrakeInspection     ServiceType = "brake_inspection"
	ServiceBrakePadReplacement ServiceType = "brake_pad_replacement"
	ServiceAirFilter           ServiceType = "air_filter"
	ServiceCabinFilter         ServiceType = "cabin_filter"
	ServiceSparkPlugs          ServiceType = "spark_plugs"
	ServiceTransmission        ServiceType = "transmission"
	ServiceCoolant             ServiceType = "coolant"
	ServiceBattery             ServiceType = "battery"
	ServiceAlignment           ServiceType = "alignment"
	ServiceBalancing           ServiceType = "balancing"
	ServiceInspection          ServiceType = "inspection"
	ServiceEmissions           ServiceType = "emissions"
	ServiceTiming              ServiceType = "timing"
	ServiceBelts               ServiceType = "belts"
	ServiceWiperBlades         ServiceType = "wiper_blades"
	ServiceHeadlights          ServiceType = "headlights"
	ServiceACService           ServiceType = "ac_service"
	ServiceCarWash             ServiceType = "car_wash"
	ServiceDetailing           ServiceType = "detailing"
	ServiceCustom              ServiceType = "custom"
)

var serviceNames = map[ServiceType]string{
	ServiceOilChange:           "Oil Change",
	ServiceTireRotation:        "Tire Rotation",
	ServiceTireReplacement:     "Tire Replacement",
	ServiceBrakeInspection:     "Brake Inspection",
	ServiceBrakePadReplacement: "Brake Pad Replacement",
	ServiceAirFilter:           "Air Filter",
	ServiceCabinFilter:         "Cabin Filter",
	ServiceSparkPlugs:          "Spark Plugs",
	ServiceTransmission:        "Transmission Service",
	ServiceCoolant:             "Coolant Flush",
	ServiceBattery:             "Battery Replacement",
	ServiceAlignment:           "Wheel Alignment",
	ServiceBalancing:           "Wheel Balancing",
	ServiceInspection:          "Vehicle Inspection",
	ServiceEmissions:           "Emissions Test",
	ServiceTiming:              "Timing Belt",
	ServiceBelts:               "Belt Replacement",
	ServiceWiperBlades:         "Wiper Blades",
	ServiceHeadlights:          "Headlight Replacement",
	ServiceACService:           "A/C Service",
	ServiceCarWash:             "Car Wash",
	ServiceDetailing:           "Detailing",
	ServiceCustom:              "Custom Service",
}

// ParseServiceType maps a raw string to a ServiceType, falling back to the
// custom escape hatch for unknown values.
func ParseServiceType(raw string) ServiceType {
	if _, ok := serviceNames[ServiceType(raw)]; ok {
		return ServiceType(raw)
	}
	return ServiceCustom
}

// DisplayName returns the human-readable service name.
func (s ServiceType) DisplayName() string {
	if name, ok := serviceNames[s]; ok {
		return name
	}
	return serviceNames[ServiceCustom]
}

// DefaultMileageInterval returns the manufacturer-typical mileage interval
// for the service, or false when the service has no mileage cadence.
func (s ServiceType) DefaultMileageInterval() (float64, bool) {
	switch s {
	case ServiceOilChange:
		return 5000, true
	case ServiceTireRotation:
		return 7500, true
	case ServiceAirFilter, ServiceCabinFilter:
		return 15000, true
	case ServiceSparkPlugs, ServiceCoolant:
		return 30000, true
	case ServiceTransmission, ServiceTiming, ServiceBelts:
		return 60000, true
	}
	return 0, false
}

// DefaultTimeIntervalMonths returns the typical time interval in months, or
// false when the service has no time cadence.
func (s ServiceType) DefaultTimeIntervalMonths() (int, bool) {
	switch s {
	case ServiceOilChange, ServiceTireRotation:
		return 6, true
	case ServiceAirFilter, ServiceCabinFilter, ServiceInspection, ServiceWiperBlades:
		return 12, true
	case ServiceEmissions:
		return 24, true
	}
	return 0, false
}

// MaintenanceRecord is one completed (or scheduled) service event.
type MaintenanceRecord struct {
	ID        uuid.UUID
	VehicleID uuid.UUID

	Date        time.Time
	Odometer    float64
	ServiceType ServiceType

	// CustomServiceName names the service when ServiceType is ServiceCustom.
	CustomServiceName *string

	Cost      float64
	LaborCost float64
	PartsCost float64

	ServiceProvider        *string
	ServiceProviderPhone   *string
	ServiceProviderAddress *string
	Notes                  *string

	IsScheduled      bool
	ReminderDate     *time.Time
	ReminderOdometer *float64

	CreatedAt time.Time
}

// NewMaintenanceRecord creates a service record for the given vehicle.
func NewMaintenanceRecord(vehicleID uuid.UUID, date time.Time, odometer float64, serviceType ServiceType) *MaintenanceRecord {
	return &MaintenanceRecord{
		ID:          uuid.New(),
		VehicleID:   vehicleID,
		Date:        date,
		Odometer:    odometer,
		ServiceType: serviceType,
		CreatedAt:   time.Now().UTC(),
	}
}

// DisplayName returns the custom service name when set on a custom record,
// otherwise the service type's display name.
func (r *MaintenanceRecord) DisplayName() string {
	if r.ServiceType == ServiceCustom && r.CustomServiceName != nil {
		return *r.CustomServiceName
	}
	return r.ServiceType.DisplayName()
}
