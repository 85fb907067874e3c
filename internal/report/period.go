package report

import (
	"time"

	"RentReport/internal/models"
)

const labelLayout = "2006-01-02"

// ResolvePeriod returns the full calendar month before ref, in UTC.
func ResolvePeriod(ref time.Time) models.PeriodRange {
	ref = ref.UTC()

	// time.Date normalizes month 0 to December of the previous year.
	start := time.Date(ref.Year(), ref.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)

	return models.PeriodRange{
		Start: start,
		End:   end,
		Label: start.Format(labelLayout) + " to " + end.Format(labelLayout),
	}
}
