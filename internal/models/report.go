package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodRange is an inclusive reporting window.
type PeriodRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// RentalPeriodKey is the "YYYY-MM" key payments are attributed to.
func (p PeriodRange) RentalPeriodKey() string {
	return p.Start.Format("2006-01")
}

// Contains reports whether t lies within [Start, End].
func (p PeriodRange) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

type Summary struct {
	NewLeases          int             `json:"new_leases"`
	EndedLeases        int             `json:"ended_leases"`
	TotalRentCollected decimal.Decimal `json:"total_rent_collected"`
	ActiveLeases       int             `json:"active_leases"`
	TotalUnits         int             `json:"total_units"`
	OccupancyRate      int             `json:"occupancy_rate"`
}

type GroupCollection struct {
	GroupName string
	Collected decimal.Decimal
	Payments  int
}

type Delinquency struct {
	UnitNumber   string
	TenantName   string
	ExpectedRent decimal.Decimal
}

type LeaseExpiry struct {
	UnitNumber   string
	TenantName   string
	LeaseEndDate time.Time
	DaysLeft     int
}

type Vacancy struct {
	UnitNumber   string
	GroupName    string
	PropertyType string
	// LastRecordedRent is nil when the unit has no payment history.
	LastRecordedRent *decimal.Decimal
}

type ReportDetails struct {
	RentalPeriodKey     string
	RentByGroup         []GroupCollection
	TotalByGroup        decimal.Decimal
	PeriodDelinquencies []Delinquency
	ExpiredLeases       []LeaseExpiry
	ExpiringSoon        []LeaseExpiry
	Vacancies           []Vacancy
	CSV                 string
}
