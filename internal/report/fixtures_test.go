package report

import (
	"context"
	"sync"
	"time"

	"RentReport/internal/models"
	"RentReport/internal/normalize"
)

type fakeSource struct {
	leases    []models.Lease
	payments  []models.Payment
	inventory []models.InventoryUnit

	paymentsErr error
}

func (f *fakeSource) FetchLeases(context.Context, string) ([]models.Lease, error) {
	return f.leases, nil
}

func (f *fakeSource) FetchPayments(context.Context, string) ([]models.Payment, error) {
	if f.paymentsErr != nil {
		return nil, f.paymentsErr
	}
	return f.payments, nil
}

func (f *fakeSource) FetchInventory(context.Context, string) ([]models.InventoryUnit, error) {
	return f.inventory, nil
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []models.EmailLogEntry
	err     error
}

func (m *memoryAudit) InsertEmailLog(_ context.Context, entry *models.EmailLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lease(id, unit, tenant string, rent float64, created, end time.Time) models.Lease {
	return models.Lease{
		ID:           normalize.Text(id),
		UnitID:       normalize.Text(unit),
		TenantName:   normalize.Text(tenant),
		RentAmount:   normalize.AmountFromFloat(rent),
		CreatedAt:    normalize.NewDate(created),
		LeaseEndDate: normalize.NewDate(end),
	}
}

func payment(unit string, paid float64, on time.Time, period string) models.Payment {
	return models.Payment{
		UnitID:         normalize.Text(unit),
		ActualRentPaid: normalize.AmountFromFloat(paid),
		PaymentDate:    normalize.NewDate(on),
		RentalPeriod:   normalize.Text(period),
	}
}

func unit(id, number, group string) models.InventoryUnit {
	return models.InventoryUnit{
		ID:         normalize.Text(id),
		UnitNumber: normalize.Text(number),
		GroupName:  normalize.Text(group),
	}
}

// february2024 is the period resolved for any reference date in March 2024.
var february2024 = models.PeriodRange{
	Start: day(2024, time.February, 1),
	End:   day(2024, time.March, 1).Add(-time.Millisecond),
	Label: "2024-02-01 to 2024-02-29",
}
