// Package report builds and delivers the monthly landlord summary report.
package report

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"RentReport/internal/models"
	"RentReport/internal/normalize"
)

// Source is the read port over the document store. Every call is scoped
// to one landlord.
type Source interface {
	FetchLeases(ctx context.Context, landlordID string) ([]models.Lease, error)
	FetchPayments(ctx context.Context, landlordID string) ([]models.Payment, error)
	FetchInventory(ctx context.Context, landlordID string) ([]models.InventoryUnit, error)
}

// Snapshot is the landlord's data as read at the start of a run.
type Snapshot struct {
	Leases    []models.Lease
	Payments  []models.Payment
	Inventory []models.InventoryUnit
}

// Fetch issues the three reads concurrently and returns once all have
// completed. The first error cancels the others.
func Fetch(ctx context.Context, src Source, landlordID string) (*Snapshot, error) {
	var snap Snapshot

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		leases, err := src.FetchLeases(ctx, landlordID)
		snap.Leases = leases
		return err
	})
	group.Go(func() error {
		payments, err := src.FetchPayments(ctx, landlordID)
		snap.Payments = payments
		return err
	})
	group.Go(func() error {
		inventory, err := src.FetchInventory(ctx, landlordID)
		snap.Inventory = inventory
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &snap, nil
}

func inPeriod(v any, period models.PeriodRange) bool {
	t, ok := normalize.ToDate(v)
	return ok && period.Contains(t)
}

// activeAt reports whether a lease is still running after ref.
func activeAt(l models.Lease, at time.Time) bool {
	if !l.Active() {
		return false
	}
	end, ok := normalize.ToDate(l.LeaseEndDate)
	if !ok {
		return true
	}
	return end.After(at)
}

func activeLeasesAt(leases []models.Lease, period models.PeriodRange) []models.Lease {
	out := make([]models.Lease, 0, len(leases))
	for _, l := range leases {
		if activeAt(l, period.End) {
			out = append(out, l)
		}
	}
	return out
}

// Summarize reduces a snapshot to the portfolio KPIs for the period.
func Summarize(snap *Snapshot, period models.PeriodRange) models.Summary {
	s := models.Summary{
		TotalRentCollected: decimal.Zero,
		TotalUnits:         len(snap.Inventory),
	}

	for _, l := range snap.Leases {
		if inPeriod(l.CreatedAt, period) {
			s.NewLeases++
		}
		if inPeriod(l.LeaseEndDate, period) {
			s.EndedLeases++
		}
	}

	for _, p := range snap.Payments {
		if inPeriod(p.PaymentDate, period) {
			s.TotalRentCollected = s.TotalRentCollected.Add(normalize.ToAmount(p.ActualRentPaid))
		}
	}

	s.ActiveLeases = len(activeLeasesAt(snap.Leases, period))

	if s.TotalUnits > 0 {
		pct := float64(s.ActiveLeases) / float64(s.TotalUnits) * 100
		s.OccupancyRate = int(math.Round(pct))
	}

	return s
}
