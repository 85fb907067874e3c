package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RentReport/internal/models"
	"RentReport/internal/normalize"
)

var runTime = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

func TestBuildDetails_RentByGroup(t *testing.T) {
	fee := payment("u1", 50, day(2024, time.February, 3), "2024-02")
	fee.PaymentType = "Late Fee"

	explicit := payment("u3", 700, day(2024, time.February, 4), "2024-02")
	explicit.PaymentType = models.DefaultPaymentType

	snap := &Snapshot{
		Payments: []models.Payment{
			payment("u1", 1000, day(2024, time.February, 3), "2024-02"),
			payment("u2", 1200, day(2024, time.February, 5), "2024-02"),
			explicit,
			fee,
			payment("u1", 1000, day(2024, time.January, 3), "2024-01"),
			payment("ghost", 300, day(2024, time.February, 8), "2024-02"),
		},
		Inventory: []models.InventoryUnit{
			unit("u1", "101", "Maple"),
			unit("u2", "102", "Maple"),
			unit("u3", "201", ""),
		},
	}

	d := BuildDetails(snap, february2024, runTime)

	require.Len(t, d.RentByGroup, 2)
	assert.Equal(t, "Default", d.RentByGroup[0].GroupName)
	assert.True(t, decimal.NewFromInt(1000).Equal(d.RentByGroup[0].Collected))
	assert.Equal(t, 2, d.RentByGroup[0].Payments)
	assert.Equal(t, "Maple", d.RentByGroup[1].GroupName)
	assert.True(t, decimal.NewFromInt(2200).Equal(d.RentByGroup[1].Collected))
	assert.True(t, decimal.NewFromInt(3200).Equal(d.TotalByGroup))
}

func TestBuildDetails_DelinquenciesAreComplete(t *testing.T) {
	ended := lease("l5", "u5", "Eve", 800, day(2022, time.January, 1), day(2024, time.February, 10))
	closed := lease("l6", "u6", "Fay", 800, day(2022, time.January, 1), time.Time{})
	closed.IsActive = normalize.NewFlag(false)

	snap := &Snapshot{
		Leases: []models.Lease{
			lease("l1", "u1", "Ana", 1000, day(2023, time.January, 1), time.Time{}),
			lease("l2", "u2", "Ben", 1200, day(2023, time.January, 1), day(2025, time.January, 1)),
			lease("l3", "u3", "Cy", 1100, day(2023, time.January, 1), time.Time{}),
			{ID: "l4", TenantName: "", RentAmount: normalize.AmountFromFloat(950)},
			ended,
			closed,
		},
		Payments: []models.Payment{
			payment("u1", 1000, day(2024, time.February, 2), "2024-02"),
			// paid for the wrong month
			payment("u2", 1200, day(2024, time.February, 2), "2024-01"),
		},
		Inventory: []models.InventoryUnit{
			unit("u1", "101", "Maple"), unit("u2", "102", "Maple"), unit("u3", "201", "Oak"),
		},
	}

	d := BuildDetails(snap, february2024, runTime)

	tenants := make([]string, 0, len(d.PeriodDelinquencies))
	for _, del := range d.PeriodDelinquencies {
		tenants = append(tenants, del.TenantName)
	}
	assert.ElementsMatch(t, []string{"Ben", "Cy", ""}, tenants)

	for _, del := range d.PeriodDelinquencies {
		assert.NotEqual(t, "Ana", del.TenantName)
		if del.TenantName == "Ben" {
			assert.Equal(t, "102", del.UnitNumber)
			assert.True(t, decimal.NewFromInt(1200).Equal(del.ExpectedRent))
		}
		if del.TenantName == "" {
			assert.Equal(t, "", del.UnitNumber)
			assert.True(t, decimal.NewFromInt(950).Equal(del.ExpectedRent))
		}
	}
}

func TestBuildDetails_ExpirationOrderAndSign(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	var leases []models.Lease
	for i, days := range []int{-5, 40, 10, -1, 0} {
		l := lease("l", "u", "tenant", 1000, day(2023, time.January, 1), now.AddDate(0, 0, days))
		l.TenantName = []normalize.Text{"minus5", "plus40", "plus10", "minus1", "zero"}[i]
		leases = append(leases, l)
	}
	openEnded := lease("l", "u", "open", 1000, day(2023, time.January, 1), time.Time{})
	inactive := lease("l", "u", "inactive", 1000, day(2023, time.January, 1), now.AddDate(0, 0, -3))
	inactive.IsActive = normalize.NewFlag(false)
	leases = append(leases, openEnded, inactive)

	d := BuildDetails(&Snapshot{Leases: leases}, february2024, now)

	daysOf := func(list []models.LeaseExpiry) []int {
		out := make([]int, 0, len(list))
		for _, e := range list {
			out = append(out, e.DaysLeft)
		}
		return out
	}

	assert.Equal(t, []int{-5, -1}, daysOf(d.ExpiredLeases))
	assert.Equal(t, []int{0, 10}, daysOf(d.ExpiringSoon))
	assert.Equal(t, "minus5", d.ExpiredLeases[0].TenantName)
	assert.Equal(t, "zero", d.ExpiringSoon[0].TenantName)
}

func TestDaysUntil_RoundsUp(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, daysUntil(now.Add(time.Hour), now))
	assert.Equal(t, 0, daysUntil(now.Add(-time.Hour), now))
	assert.Equal(t, -1, daysUntil(now.Add(-25*time.Hour), now))
}

func TestBuildDetails_Vacancies(t *testing.T) {
	snap := &Snapshot{
		Leases: []models.Lease{
			lease("l1", "u1", "Ana", 1000, day(2023, time.January, 1), time.Time{}),
			// ended before the run, so u2 is vacant now
			lease("l2", "u2", "Ben", 1200, day(2023, time.January, 1), day(2024, time.February, 20)),
		},
		Payments: []models.Payment{
			payment("u2", 1150, day(2024, time.January, 5), "2024-01"),
			payment("u2", 1200, day(2024, time.February, 5), "2024-02"),
			payment("u2", 1100, day(2023, time.December, 5), "2023-12"),
		},
		Inventory: []models.InventoryUnit{
			unit("u1", "101", "Maple"),
			unit("u2", "102", "Maple"),
			unit("u3", "103", ""),
		},
	}

	d := BuildDetails(snap, february2024, runTime)

	require.Len(t, d.Vacancies, 2)

	assert.Equal(t, "102", d.Vacancies[0].UnitNumber)
	require.NotNil(t, d.Vacancies[0].LastRecordedRent)
	assert.True(t, decimal.NewFromInt(1200).Equal(*d.Vacancies[0].LastRecordedRent))

	assert.Equal(t, "103", d.Vacancies[1].UnitNumber)
	assert.Equal(t, "Default", d.Vacancies[1].GroupName)
	assert.Nil(t, d.Vacancies[1].LastRecordedRent)
}
