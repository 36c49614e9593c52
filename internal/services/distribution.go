// Package services – distribution helpers
//
// This file holds the pure counting primitives shared by the daily aggregator
// (write path) and the reconciler's raw fallback (read path). Both paths must
// group and count identically, so the logic lives in one place.
package services

import (
	"time"

	"github.com/mempulse/go-survey-backend/internal/domain"
)

// dayKeyLayout renders a UTC calendar day as "YYYY-MM-DD". Lexicographic
// order on day keys equals chronological order.
const dayKeyLayout = "2006-01-02"

// DayKey truncates a timestamp to its UTC calendar day, discarding the time
// of day. Two responses submitted at different times on the same UTC day map
// to the same key. This single truncation rule is used everywhere a window
// boundary or grouping decision is made, so the summary-backed and raw-backed
// read paths can never disagree by a day.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// ComputeDistribution builds the per-scope count distribution for a list of
// raw answer values: a value→count mapping, the total, and a derived mean.
//
// The mean is defined only when the count key set is exactly {"Yes","No"}
// (order-independent) and equals counts["Yes"]/total. Any other key set,
// including supersets of {"Yes","No"}, yields no mean.
//
// Values are counted as-is; nothing is validated against question options and
// duplicate answers from one response all count.
func ComputeDistribution(values []string) domain.SummaryData {
	counts := make(map[string]int, 4)
	for _, v := range values {
		counts[v]++
	}

	d := domain.SummaryData{
		Counts: counts,
		Total:  len(values),
	}

	if isYesNo(counts) && d.Total > 0 {
		mean := float64(counts["Yes"]) / float64(d.Total)
		d.Mean = &mean
	}
	return d
}

// isYesNo reports whether the key set of counts is exactly {"Yes","No"}.
func isYesNo(counts map[string]int) bool {
	if len(counts) != 2 {
		return false
	}
	_, yes := counts["Yes"]
	_, no := counts["No"]
	return yes && no
}

// mergeCounts adds src's option counts into dst additively and returns the
// number of occurrences added. Absent days/questions simply contribute
// nothing; there are no zero entries.
func mergeCounts(dst map[string]int, src map[string]int) int {
	added := 0
	for option, n := range src {
		dst[option] += n
		added += n
	}
	return added
}
