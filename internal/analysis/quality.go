package analysis

import (
	"math"
)

// ColumnProfile holds quality metrics for a column
type ColumnProfile struct {
	Column          string     `json:"column"`
	Kind            ColumnKind `json:"kind"`
	TotalRows       int        `json:"total_rows"`
	NonNullRows     int        `json:"non_null_rows"`
	NullRate        float64    `json:"null_rate"`
	DistinctCount   int        `json:"distinct_count"`
	UniquenessRatio float64    `json:"uniqueness_ratio"`
	Entropy         float64    `json:"entropy"`
	IsKey           bool       `json:"is_key"`
	QualityScore    float64    `json:"quality_score"` // 0-1
}

// Profile computes a ColumnProfile for every column, in file order.
func (d *Dataset) Profile() []ColumnProfile {
	profiles := make([]ColumnProfile, len(d.columns))
	for i, c := range d.columns {
		profiles[i] = d.profileColumn(c)
	}
	return profiles
}

func (d *Dataset) profileColumn(c Column) ColumnProfile {
	profile := ColumnProfile{
		Column:    c.Name,
		Kind:      c.Kind,
		TotalRows: d.nrows,
	}
	if d.nrows == 0 {
		return profile
	}

	col := d.frame.Col(c.Name)
	nan := col.IsNaN()
	counts := make(map[string]int)
	for i, v := range col.Records() {
		if nan[i] {
			continue
		}
		profile.NonNullRows++
		counts[v]++
	}

	profile.DistinctCount = len(counts)
	profile.NullRate = float64(profile.TotalRows-profile.NonNullRows) / float64(profile.TotalRows)
	if profile.NonNullRows > 0 {
		profile.UniquenessRatio = float64(profile.DistinctCount) / float64(profile.NonNullRows)
	}
	profile.Entropy = shannonEntropy(counts, profile.NonNullRows)

	// Nearly all distinct and nearly never missing.
	profile.IsKey = profile.UniquenessRatio > 0.95 && profile.NullRate < 0.05
	profile.QualityScore = qualityScore(profile)

	return profile
}

// shannonEntropy in bits.
func shannonEntropy(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, count := range counts {
		if count > 0 {
			p := float64(count) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// qualityScore penalizes missing values and entropy far from ~4 bits.
func qualityScore(p ColumnProfile) float64 {
	score := 1.0 - p.NullRate

	const idealEntropy = 4.0
	entropyPenalty := math.Abs(p.Entropy-idealEntropy) / 10.0
	score *= math.Max(0.5, 1.0-entropyPenalty)

	return math.Max(0, math.Min(1, score))
}
