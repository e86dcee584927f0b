package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
)

// Summary aggregates quotes over a window. Any quote that is not accepted,
// drafts included, counts against the win rate.
type Summary struct {
	Days        int     `json:"days"`
	Count       int     `json:"count"`
	TotalQuoted float64 `json:"total_quoted"`
	WinRate     float64 `json:"win_rate"`
	AvgJob      float64 `json:"avg_job"`
	AvgMargin   float64 `json:"avg_margin"`
}

type DailyPoint struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

func summarize(rows []models.Quote, days int) Summary {
	out := Summary{Days: days, Count: len(rows)}
	if len(rows) == 0 {
		return out
	}

	total := decimal.Zero
	won := 0
	marginSum := 0.0
	for _, row := range rows {
		total = total.Add(row.Total)
		if row.Status == enums.QuoteStatusAccepted {
			won++
		}
		marginSum += quotes.MarginOf(row).MarginPct
	}

	count := decimal.NewFromInt(int64(len(rows)))
	out.TotalQuoted = total.InexactFloat64()
	out.AvgJob = total.Div(count).Round(2).InexactFloat64()
	out.WinRate = float64(won) / float64(len(rows)) * 100
	out.AvgMargin = marginSum / float64(len(rows))
	return out
}

// dailySeries counts quotes per UTC day for the days ending today, with zero
// entries for days without quotes.
func dailySeries(rows []models.Quote, days int, now time.Time) []DailyPoint {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CreatedAt.UTC().Format(time.DateOnly)]++
	}

	today := now.UTC()
	out := make([]DailyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(time.DateOnly)
		out = append(out, DailyPoint{Date: key, Label: day.Format("01/02"), Count: counts[key]})
	}
	return out
}
