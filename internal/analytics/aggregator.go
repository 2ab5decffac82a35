package analytics

import (
	"fmt"
	"time"

	"github.com/lromero/smartlink/internal/link"
)

// Unavailable is reported for derived values that have no data behind them.
const Unavailable = "N/A"

// dayLabelFormat renders bucket labels like "Jan 02".
const dayLabelFormat = "Jan 02"

// Bucket is one labelled point of a time series.
type Bucket struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Summary is the derived engagement view consumed by the dashboard.
type Summary struct {
	DailySeries []Bucket `json:"dailySeries"`
	PeakHour    string   `json:"peakHour"`
	HighestDay  string   `json:"highestDay"`
	LowestDay   string   `json:"lowestDay"`
	TopLinkName string   `json:"topLinkName"`
	TotalClicks int64    `json:"totalClicks"`
}

// Aggregate derives dashboard analytics from in-memory link records. Pure
// computation: deterministic given the same links and reference time.
//
// Each link's entire cumulative click count is attributed to the calendar day
// and hour of its most recent click. This is an approximation that follows
// from keeping a single mutable counter instead of a per-click event log.
func Aggregate(links []*link.Link, now time.Time) Summary {
	loc := now.Location()

	summary := Summary{
		DailySeries: make([]Bucket, 0, 7),
		PeakHour:    Unavailable,
		TopLinkName: Unavailable,
	}

	// Last 7 calendar days including today, oldest first.
	days := make([]time.Time, 0, 7)
	for i := 6; i >= 0; i-- {
		days = append(days, now.AddDate(0, 0, -i))
	}

	for _, day := range days {
		var total int64

		for _, l := range links {
			if l.LastClickedAt != nil && sameDay(l.LastClickedAt.In(loc), day) {
				total += l.ClickCount
			}
		}

		summary.DailySeries = append(summary.DailySeries, Bucket{
			Label: day.Format(dayLabelFormat),
			Value: total,
		})
	}

	// Peak hour over all clicked links, ties broken by lowest hour.
	var (
		hours     [24]int64
		anyClicks bool
	)

	for _, l := range links {
		summary.TotalClicks += l.ClickCount

		if l.LastClickedAt != nil {
			hours[l.LastClickedAt.In(loc).Hour()] += l.ClickCount
			anyClicks = true
		}
	}

	if anyClicks {
		peak := 0
		for h, count := range hours {
			if count > hours[peak] {
				peak = h
			}
		}

		summary.PeakHour = fmt.Sprintf("%d:00", peak)
	}

	if len(summary.DailySeries) > 0 {
		highest, lowest := 0, 0

		for i, bucket := range summary.DailySeries {
			if bucket.Value > summary.DailySeries[highest].Value {
				highest = i
			}

			if bucket.Value < summary.DailySeries[lowest].Value {
				lowest = i
			}
		}

		summary.HighestDay = summary.DailySeries[highest].Label
		summary.LowestDay = summary.DailySeries[lowest].Label
	}

	// Top link by click count, first seen wins ties.
	var top *link.Link

	for _, l := range links {
		if top == nil || l.ClickCount > top.ClickCount {
			top = l
		}
	}

	if top != nil {
		summary.TopLinkName = top.Name
	}

	return summary
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
