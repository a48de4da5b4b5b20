package domain

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(y int, m time.Month, d int, maxT, minT float64) Record {
	return Record{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), MaxTemperature: maxT, MinTemperature: minT}
}

func TestAggregate_January2020(t *testing.T) {
	records := []Record{
		rec(2020, time.January, 1, 30, 15),
		rec(2020, time.January, 2, 35, 12),
		rec(2020, time.January, 3, 40, 18),
	}

	aggs := Aggregate(records)

	require.Len(t, aggs, 1)
	a := aggs[0]
	assert.Equal(t, MonthKey{Year: 2020, Month: time.January}, a.Key)
	assert.Equal(t, 40.0, a.MaxTemperature)
	assert.Equal(t, 12.0, a.MinTemperature)
	assert.Equal(t, 35.0, a.MeanMax)
	assert.Equal(t, 15.0, a.MeanMin)
	assert.Equal(t, 3, a.Count)
	assert.Nil(t, a.Days)
}

func TestAggregate_OneCellPerMonth(t *testing.T) {
	records := []Record{
		rec(2019, time.December, 31, 20, 10),
		rec(2020, time.February, 1, 22, 9),
		rec(2020, time.January, 15, 25, 11),
		rec(2020, time.January, 16, 26, 12),
		rec(2019, time.December, 1, 21, 8),
	}

	aggs := Aggregate(records)

	require.Len(t, aggs, 3)
	assert.Equal(t, "2019-12", aggs[0].Key.String())
	assert.Equal(t, "2020-01", aggs[1].Key.String())
	assert.Equal(t, "2020-02", aggs[2].Key.String())
	assert.Equal(t, []int{2019, 2020}, Years(aggs))
}

func TestAggregate_OrderIndependent(t *testing.T) {
	var records []Record
	for y := 2015; y <= 2017; y++ {
		for m := time.January; m <= time.December; m++ {
			for d := 1; d <= 28; d++ {
				base := float64(int(m)*3 + d%7)
				records = append(records, rec(y, m, d, base+0.1*float64(d), base-10.3+0.01*float64(y)))
			}
		}
	}
	records = append(records, rec(2016, time.March, 4, 99.9, -5.5))

	want := AggregateDaily(records, 2000)
	r := rand.New(rand.NewPCG(1, 2))
	for range 5 {
		shuffled := append([]Record(nil), records...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := AggregateDaily(shuffled, 2000)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("aggregates differ after shuffle (-want +got):\n%s", diff)
		}
	}
}

func TestAggregate_DuplicateDates(t *testing.T) {
	records := []Record{
		rec(2020, time.January, 5, 30, 12),
		rec(2020, time.January, 5, 28, 10),
	}

	aggs := AggregateDaily(records, 2008)

	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].Count)
	assert.Equal(t, 30.0, aggs[0].MaxTemperature)
	assert.Equal(t, 10.0, aggs[0].MinTemperature)
	require.Len(t, aggs[0].Days, 2)

	first, ok := aggs[0].DayRecord(5)
	require.True(t, ok)
	assert.Equal(t, 28.0, first.MaxTemperature)
}

func TestAggregate_MissingValues(t *testing.T) {
	records := []Record{
		rec(2020, time.March, 1, Missing, 5),
		rec(2020, time.March, 2, Missing, 3),
	}

	aggs := Aggregate(records)

	require.Len(t, aggs, 1)
	assert.True(t, IsMissing(aggs[0].MaxTemperature))
	assert.True(t, IsMissing(aggs[0].MeanMax))
	assert.Equal(t, 3.0, aggs[0].MinTemperature)
	assert.Equal(t, 4.0, aggs[0].MeanMin)
	assert.Equal(t, 2, aggs[0].MissingMax)
	assert.Equal(t, 0, aggs[0].MissingMin)
}

func TestAggregateDaily_FiltersYears(t *testing.T) {
	records := []Record{
		rec(2007, time.December, 31, 20, 10),
		rec(2008, time.January, 1, 21, 11),
		rec(2008, time.January, 3, 23, 9),
		rec(2008, time.January, 2, 22, 12),
	}

	aggs := AggregateDaily(records, 2008)

	require.Len(t, aggs, 1)
	assert.Equal(t, 2008, aggs[0].Key.Year)
	days := make([]int, 0, len(aggs[0].Days))
	for _, d := range aggs[0].Days {
		days = append(days, d.Day())
	}
	assert.Equal(t, []int{1, 2, 3}, days)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, Nullable(Missing))
	v := Nullable(-3.5)
	require.NotNil(t, v)
	assert.Equal(t, -3.5, *v)
}

func TestExtent(t *testing.T) {
	records := []Record{
		rec(2020, time.January, 1, 30, Missing),
		rec(2020, time.January, 2, -4.5, Missing),
		rec(2020, time.January, 3, Missing, Missing),
	}

	lo, hi := Extent(records, func(r Record) float64 { return r.MaxTemperature })
	assert.Equal(t, -4.5, lo)
	assert.Equal(t, 30.0, hi)

	lo, hi = Extent(records, func(r Record) float64 { return r.MinTemperature })
	assert.True(t, IsMissing(lo))
	assert.True(t, IsMissing(hi))

	aggs := Aggregate(records)
	if diff := cmp.Diff(Missing, aggs[0].MinTemperature, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("min aggregate of all-missing month (-want +got):\n%s", diff)
	}
}
