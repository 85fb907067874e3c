package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolvePeriod_LeapFebruary(t *testing.T) {
	for _, ref := range []time.Time{
		day(2024, time.March, 1),
		time.Date(2024, time.March, 15, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
	} {
		p := ResolvePeriod(ref)
		assert.Equal(t, "2024-02-01T00:00:00Z", p.Start.Format(time.RFC3339Nano))
		assert.Equal(t, "2024-02-29T23:59:59.999Z", p.End.Format(time.RFC3339Nano))
		assert.Equal(t, "2024-02-01 to 2024-02-29", p.Label)
		assert.Equal(t, "2024-02", p.RentalPeriodKey())
	}
}

func TestResolvePeriod_JanuaryRollsBack(t *testing.T) {
	p := ResolvePeriod(time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC))

	assert.Equal(t, day(2023, time.December, 1), p.Start)
	assert.Equal(t, "2023-12-31T23:59:59.999Z", p.End.Format(time.RFC3339Nano))
	assert.Equal(t, "2023-12-01 to 2023-12-31", p.Label)
	assert.Equal(t, "2023-12", p.RentalPeriodKey())
}

func TestResolvePeriod_UsesUTC(t *testing.T) {
	// 2024-03-01 02:00 in UTC+5 is still February in UTC.
	loc := time.FixedZone("UTC+5", 5*60*60)
	p := ResolvePeriod(time.Date(2024, time.March, 1, 2, 0, 0, 0, loc))

	assert.Equal(t, day(2024, time.January, 1), p.Start)
}

func TestPeriodRange_ContainsIsInclusive(t *testing.T) {
	assert.True(t, february2024.Contains(february2024.Start))
	assert.True(t, february2024.Contains(february2024.End))
	assert.False(t, february2024.Contains(february2024.End.Add(time.Millisecond)))
	assert.False(t, february2024.Contains(february2024.Start.Add(-time.Millisecond)))
}
