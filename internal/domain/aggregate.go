package domain

import (
	"cmp"
	"math"
	"slices"
)

// Aggregate reduces records to one MonthAggregate per (year, month) present,
// ordered by year then month. The result does not depend on input order.
func Aggregate(records []Record) []MonthAggregate {
	return aggregate(records, false)
}

// AggregateDaily keeps only records from minYear onward and retains each
// month's sorted records in Days for the daily line charts.
func AggregateDaily(records []Record, minYear int) []MonthAggregate {
	return aggregate(FilterFromYear(records, minYear), true)
}

// FilterFromYear returns the records whose year is at least minYear.
func FilterFromYear(records []Record, minYear int) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Year() >= minYear {
			out = append(out, r)
		}
	}
	return out
}

func aggregate(records []Record, keepDays bool) []MonthAggregate {
	groups := make(map[MonthKey][]Record)
	for _, r := range records {
		k := r.Key()
		groups[k] = append(groups[k], r)
	}

	keys := make([]MonthKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	out := make([]MonthAggregate, 0, len(keys))
	for _, k := range keys {
		days := groups[k]
		slices.SortStableFunc(days, compareRecords)
		agg := reduceMonth(k, days)
		if keepDays {
			agg.Days = days
		}
		out = append(out, agg)
	}
	return out
}

func reduceMonth(k MonthKey, days []Record) MonthAggregate {
	agg := MonthAggregate{
		Key:            k,
		MaxTemperature: Missing,
		MinTemperature: Missing,
		MeanMax:        Missing,
		MeanMin:        Missing,
		Count:          len(days),
	}
	var sumMax, sumMin float64
	var nMax, nMin int
	for _, r := range days {
		if IsMissing(r.MaxTemperature) {
			agg.MissingMax++
		} else {
			if nMax == 0 || r.MaxTemperature > agg.MaxTemperature {
				agg.MaxTemperature = r.MaxTemperature
			}
			sumMax += r.MaxTemperature
			nMax++
		}
		if IsMissing(r.MinTemperature) {
			agg.MissingMin++
		} else {
			if nMin == 0 || r.MinTemperature < agg.MinTemperature {
				agg.MinTemperature = r.MinTemperature
			}
			sumMin += r.MinTemperature
			nMin++
		}
	}
	if nMax > 0 {
		agg.MeanMax = sumMax / float64(nMax)
	}
	if nMin > 0 {
		agg.MeanMin = sumMin / float64(nMin)
	}
	return agg
}

func compareKeys(a, b MonthKey) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Month, b.Month)
}

// compareRecords orders by date, then by values so duplicate dates sort
// deterministically. cmp.Compare places NaN first.
func compareRecords(a, b Record) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.MaxTemperature, b.MaxTemperature); c != 0 {
		return c
	}
	return cmp.Compare(a.MinTemperature, b.MinTemperature)
}

// Years returns the distinct years of the aggregates in ascending order.
func Years(aggs []MonthAggregate) []int {
	var years []int
	for _, a := range aggs {
		if n := len(years); n == 0 || years[n-1] != a.Key.Year {
			years = append(years, a.Key.Year)
		}
	}
	return years
}

// Extent returns the smallest and largest non-missing value among items.
// Both results are Missing when no value is present.
func Extent[T any](items []T, value func(T) float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, it := range items {
		v := value(it)
		if IsMissing(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return Missing, Missing
	}
	return lo, hi
}
