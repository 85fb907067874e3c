package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"RentReport/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var summaryTemplate = template.Must(
	template.New("summary.html").Funcs(template.FuncMap{
		"money":    formatMoney,
		"lastRent": formatLastRent,
		"date":     formatDate,
		"percent":  formatPercent,
		"abs":      absInt,
	}).ParseFS(templateFS, "templates/summary.html"),
)

// View is the data the summary email template renders.
type View struct {
	LandlordID  string
	Period      models.PeriodRange
	Summary     models.Summary
	Details     models.ReportDetails
	GeneratedAt time.Time
}

// formatMoney renders d as $1,234.56. Digits come from the decimal itself;
// the printer only groups the whole part.
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}

	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = printer.Sprintf("%d", n)
	}

	return sign + "$" + whole + "." + frac
}

func formatLastRent(d *decimal.Decimal) string {
	if d == nil {
		return "N/A"
	}
	return formatMoney(*d)
}

func formatPercent(v int) string {
	return fmt.Sprintf("%d%%", v)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(labelLayout)
}

// RenderHTML renders the summary email body.
func RenderHTML(v View) (string, error) {
	var body bytes.Buffer
	if err := summaryTemplate.Execute(&body, v); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}
