package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"RentReport/internal/models"
	"RentReport/internal/normalize"
)

const csvHeader = "Unit Number,Tenant Name,Expected Rent,Actual Rent,Rental Period,Comments"

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

type unitPayments struct {
	total    decimal.Decimal
	comments []string
}

// buildCSV renders one row per lease. The Comments column is always quoted;
// the other columns are written as-is. Rows are newline separated with no
// trailing newline.
func buildCSV(leases []models.Lease, payments []models.Payment, units unitIndex, key string) string {
	byUnit := make(map[string]*unitPayments)
	for _, p := range payments {
		if p.RentalPeriod.String() != key {
			continue
		}
		unitID := p.UnitID.String()
		up, ok := byUnit[unitID]
		if !ok {
			up = &unitPayments{total: decimal.Zero}
			byUnit[unitID] = up
		}
		up.total = up.total.Add(normalize.ToAmount(p.ActualRentPaid))
		if p.Comments != "" {
			up.comments = append(up.comments, p.Comments.String())
		}
	}

	rows := make([]string, 0, len(leases)+1)
	rows = append(rows, csvHeader)

	for _, l := range leases {
		unitID := l.UnitID.String()

		actual, comments := "", ""
		if up, ok := byUnit[unitID]; ok {
			actual = up.total.String()
			comments = strings.Join(up.comments, " | ")
		}

		rows = append(rows, strings.Join([]string{
			units.unitNumber(unitID),
			l.TenantName.String(),
			normalize.ToAmount(l.RentAmount).String(),
			actual,
			key,
			quoteField(comments),
		}, ","))
	}

	return strings.Join(rows, "\n")
}

func quoteField(s string) string {
	s = newlines.Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
