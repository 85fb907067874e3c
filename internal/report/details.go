package report

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"RentReport/internal/models"
	"RentReport/internal/normalize"
)

const (
	expiringSoonDays = 30
	// noEndDateDays stands in for leases without an end date so they never
	// count as expired or expiring.
	noEndDateDays = 99999

	msPerDay = 24 * 60 * 60 * 1000
)

type unitIndex map[string]models.InventoryUnit

func indexUnits(units []models.InventoryUnit) unitIndex {
	idx := make(unitIndex, len(units))
	for _, u := range units {
		idx[u.ID.String()] = u
	}
	return idx
}

func (idx unitIndex) unitNumber(unitID string) string {
	if u, ok := idx[unitID]; ok {
		return u.UnitNumber.String()
	}
	return ""
}

func (idx unitIndex) group(unitID string) string {
	if u, ok := idx[unitID]; ok {
		return u.Group()
	}
	return models.DefaultGroupName
}

// BuildDetails produces the per-group, delinquency, expiration, vacancy and
// CSV sections of the report. now is the wall-clock time of the run and is
// used for expirations and vacancies, not the report period.
func BuildDetails(snap *Snapshot, period models.PeriodRange, now time.Time) models.ReportDetails {
	units := indexUnits(snap.Inventory)
	key := period.RentalPeriodKey()
	activeAtEnd := activeLeasesAt(snap.Leases, period)

	d := models.ReportDetails{RentalPeriodKey: key}

	var paying map[string]bool
	d.RentByGroup, d.TotalByGroup, paying = rentByGroup(snap.Payments, units, key)
	d.PeriodDelinquencies = delinquencies(activeAtEnd, paying, units)
	d.ExpiredLeases, d.ExpiringSoon = expirations(snap.Leases, units, now.UTC())
	d.Vacancies = vacancies(snap, units, now.UTC())
	d.CSV = buildCSV(activeAtEnd, snap.Payments, units, key)

	return d
}

func rentByGroup(payments []models.Payment, units unitIndex, key string) ([]models.GroupCollection, decimal.Decimal, map[string]bool) {
	totals := make(map[string]*models.GroupCollection)
	paying := make(map[string]bool)
	sum := decimal.Zero

	for _, p := range payments {
		if p.RentalPeriod.String() != key || p.Type() != models.DefaultPaymentType {
			continue
		}

		unitID := p.UnitID.String()
		paying[unitID] = true

		name := units.group(unitID)
		g, ok := totals[name]
		if !ok {
			g = &models.GroupCollection{GroupName: name, Collected: decimal.Zero}
			totals[name] = g
		}

		amount := normalize.ToAmount(p.ActualRentPaid)
		g.Collected = g.Collected.Add(amount)
		g.Payments++
		sum = sum.Add(amount)
	}

	groups := make([]models.GroupCollection, 0, len(totals))
	for _, g := range totals {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].GroupName < groups[j].GroupName
	})

	return groups, sum, paying
}

func delinquencies(active []models.Lease, paying map[string]bool, units unitIndex) []models.Delinquency {
	out := make([]models.Delinquency, 0)
	for _, l := range active {
		unitID := l.UnitID.String()
		if paying[unitID] {
			continue
		}
		out = append(out, models.Delinquency{
			UnitNumber:   units.unitNumber(unitID),
			TenantName:   l.TenantName.String(),
			ExpectedRent: normalize.ToAmount(l.RentAmount),
		})
	}
	return out
}

func daysUntil(end, now time.Time) int {
	return int(math.Ceil(float64(end.Sub(now).Milliseconds()) / msPerDay))
}

func expirations(leases []models.Lease, units unitIndex, now time.Time) (expired, soon []models.LeaseExpiry) {
	expired = make([]models.LeaseExpiry, 0)
	soon = make([]models.LeaseExpiry, 0)

	for _, l := range leases {
		if !l.Active() {
			continue
		}

		e := models.LeaseExpiry{
			UnitNumber: units.unitNumber(l.UnitID.String()),
			TenantName: l.TenantName.String(),
			DaysLeft:   noEndDateDays,
		}
		if end, ok := normalize.ToDate(l.LeaseEndDate); ok {
			e.LeaseEndDate = end
			e.DaysLeft = daysUntil(end, now)
		}

		switch {
		case e.DaysLeft < 0:
			expired = append(expired, e)
		case e.DaysLeft <= expiringSoonDays:
			soon = append(soon, e)
		}
	}

	byDaysLeft := func(list []models.LeaseExpiry) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].DaysLeft < list[j].DaysLeft
		})
	}
	byDaysLeft(expired)
	byDaysLeft(soon)

	return expired, soon
}

type lastPayment struct {
	at     time.Time
	dated  bool
	amount decimal.Decimal
}

func vacancies(snap *Snapshot, units unitIndex, now time.Time) []models.Vacancy {
	occupied := make(map[string]bool)
	for _, l := range snap.Leases {
		if activeAt(l, now) {
			occupied[l.UnitID.String()] = true
		}
	}

	// Undated payments still count as history but lose to any dated one.
	latest := make(map[string]lastPayment)
	for _, p := range snap.Payments {
		unitID := p.UnitID.String()
		at, dated := normalize.ToDate(p.PaymentDate)

		cur, seen := latest[unitID]
		if !seen || (dated && (!cur.dated || at.After(cur.at))) {
			latest[unitID] = lastPayment{at: at, dated: dated, amount: normalize.ToAmount(p.ActualRentPaid)}
		}
	}

	out := make([]models.Vacancy, 0)
	for _, u := range snap.Inventory {
		unitID := u.ID.String()
		if occupied[unitID] {
			continue
		}

		v := models.Vacancy{
			UnitNumber:   u.UnitNumber.String(),
			GroupName:    u.Group(),
			PropertyType: u.PropertyType.String(),
		}
		if lp, ok := latest[unitID]; ok {
			amount := lp.amount
			v.LastRecordedRent = &amount
		}
		out = append(out, v)
	}
	return out
}
