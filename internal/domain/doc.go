// Package domain models daily temperature observations and their monthly
// aggregates.
//
// # Data Source
//
// Observations come from a CSV file with one row per calendar day. The
// header row must name three columns, in any order:
//
//	date,max_temperature,min_temperature
//	2020-1-1,31.2,18.9
//	2020-1-2,33.0,19.4
//
// Dates are "YYYY-M-D" or "YYYY-MM-DD". Anything after a "T" or a space
// (a time of day) is ignored. Temperatures are degrees Celsius.
//
// # Missing and Malformed Values
//
// An empty or unparsable temperature becomes [Missing] (NaN) and the row is
// kept. Every such field is recorded in the [LoadReport] with its line number
// and raw text. A row whose date cannot be parsed is dropped and recorded the
// same way. Aggregation skips missing values, so a month where every value of
// one kind is missing aggregates to [Missing] for that kind.
//
// # Aggregation
//
// Records are partitioned by (year, month). The maximum aggregate is the
// largest max_temperature in the month and the minimum aggregate is the
// smallest min_temperature. Each month's records are sorted by day and then
// by value before any reduction, which makes every aggregate (means included)
// independent of input row order.
package domain
