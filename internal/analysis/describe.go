package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"
)

var numericStats = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

var categoricalStats = []string{"count", "unique", "top", "freq"}

// describeRecords summarizes the numeric columns, skipping missing values.
// A dataset without numeric columns gets count/unique/top/freq for its
// remaining columns instead. The first record is the header.
func (d *Dataset) describeRecords() [][]string {
	numeric := d.NumericColumns()
	if len(numeric) > 0 {
		return d.statTable(numeric, numericStats, d.numericSummary)
	}

	var others []string
	for _, c := range d.columns {
		if c.Kind != KindUnknown {
			others = append(others, c.Name)
		}
	}
	return d.statTable(others, categoricalStats, d.categoricalSummary)
}

func (d *Dataset) statTable(cols, stats []string, summarize func(string) []string) [][]string {
	records := make([][]string, len(stats)+1)
	records[0] = append([]string{""}, cols...)
	for i, stat := range stats {
		records[i+1] = []string{stat}
	}
	for _, name := range cols {
		values := summarize(name)
		for i := range stats {
			records[i+1] = append(records[i+1], values[i])
		}
	}
	return records
}

func (d *Dataset) numericSummary(name string) []string {
	values := d.presentFloats(name)
	if len(values) == 0 {
		out := []string{"0"}
		for range numericStats[1:] {
			out = append(out, formatStat(math.NaN()))
		}
		return out
	}

	s := series.Floats(values)
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	std := math.NaN()
	if len(values) > 1 {
		std = s.StdDev()
	}

	return []string{
		strconv.Itoa(len(values)),
		formatStat(s.Mean()),
		formatStat(std),
		formatStat(s.Min()),
		formatStat(quantile(sorted, 0.25)),
		formatStat(s.Median()),
		formatStat(quantile(sorted, 0.75)),
		formatStat(s.Max()),
	}
}

func (d *Dataset) categoricalSummary(name string) []string {
	col := d.frame.Col(name)
	nan := col.IsNaN()

	counts := make(map[string]int)
	var order []string
	for i, v := range col.Records() {
		if nan[i] {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	total, top, freq := 0, "", 0
	for _, v := range order {
		total += counts[v]
		if counts[v] > freq {
			top, freq = v, counts[v]
		}
	}
	if total == 0 {
		return []string{"0", "0", "NaN", "NaN"}
	}
	return []string{strconv.Itoa(total), strconv.Itoa(len(order)), top, strconv.Itoa(freq)}
}

// presentFloats returns the column's values with missing cells dropped.
func (d *Dataset) presentFloats(name string) []float64 {
	values := []float64{}
	for _, f := range d.frame.Col(name).Float() {
		if !math.IsNaN(f) {
			values = append(values, f)
		}
	}
	return values
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
