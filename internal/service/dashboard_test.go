package service

import (
	"encoding/json"
	"strings"
	"testing"

	"csv-analyzer/internal/analysis"
	"csv-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `data,regiao,vendedor,valor,quantidade
2024-01-01,Sul,Ana,100.5,3
2024-02-01,Norte,Bruno,200,5
2024-03-01,Sul,Carla,150.75,4
`

func dataset(t *testing.T, content string) *analysis.Dataset {
	t.Helper()
	ds, err := analysis.ParseCSV(strings.NewReader(content), "t.csv")
	require.NoError(t, err)
	return ds
}

func ids(analyses []models.Analysis) []string {
	out := make([]string, len(analyses))
	for i, a := range analyses {
		out[i] = a.ID
	}
	return out
}

func find(t *testing.T, d *models.Dashboard, id string) models.Analysis {
	t.Helper()
	for _, a := range d.Analyses {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("analysis %q not found in %v", id, ids(d.Analyses))
	return models.Analysis{}
}

func TestGenerateWithoutDataset(t *testing.T) {
	d := NewDashboardService().Generate("qualquer coisa", nil)

	assert.False(t, d.Available)
	assert.Equal(t, NoDatasetMessage, d.Message)
	assert.Empty(t, d.Analyses)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":false,"message":"`+NoDatasetMessage+`"}`, string(raw))
}

func TestGenerateHeaderOnlyDataset(t *testing.T) {
	d := NewDashboardService().Generate("total de vendas", dataset(t, "a,b\n"))

	assert.True(t, d.Available)
	assert.Equal(t, 0, d.TotalAnalyses)
	assert.Empty(t, d.Analyses)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_analyses":0`)
	assert.Contains(t, string(raw), `"analyses":[]`)
}

func TestGenerateFixedOrderWithoutMatches(t *testing.T) {
	d := NewDashboardService().Generate("olá", dataset(t, salesCSV))

	assert.Equal(t, []string{
		"descriptive", "trends", "comparison", "ranking",
		"anomalies", "correlation", "distribution", "aggregation",
	}, ids(d.Analyses))
	assert.Equal(t, 8, d.TotalAnalyses)
	for _, a := range d.Analyses {
		assert.False(t, a.Relevant, a.ID)
	}
	assert.Equal(t, models.DataInfo{
		Rows:               3,
		Columns:            5,
		NumericColumns:     2,
		CategoricalColumns: 3,
		HasDates:           true,
	}, d.DataInfo)
}

func TestGenerateCorrelationIsRelevantAndFirst(t *testing.T) {
	d := NewDashboardService().Generate("Existe correlação entre valor e quantidade?", dataset(t, salesCSV))

	corr := find(t, d, "correlation")
	assert.True(t, corr.Relevant)
	assert.Equal(t, []string{"valor", "quantidade"}, corr.Columns)

	// "entre" also makes comparison relevant; relevant entries keep their order.
	assert.Equal(t, []string{
		"comparison", "correlation",
		"descriptive", "trends", "ranking", "anomalies", "distribution", "aggregation",
	}, ids(d.Analyses))

	seenIrrelevant := false
	for _, a := range d.Analyses {
		if !a.Relevant {
			seenIrrelevant = true
			continue
		}
		assert.False(t, seenIrrelevant, "relevant %s after an irrelevant analysis", a.ID)
	}
}

func TestGenerateTrendsFromDateColumnName(t *testing.T) {
	ds := dataset(t, "data,valor\n2024-01-01,10\n2024-02-01,20\n2024-03-01,30\n")

	d := NewDashboardService().Generate("qual a tendência de crescimento?", ds)

	trends := find(t, d, "trends")
	assert.True(t, trends.Relevant)
	assert.Equal(t, []string{"data"}, trends.Columns)
	assert.Equal(t, "trends", d.Analyses[0].ID)
	assert.True(t, d.DataInfo.HasDates)
}

func TestGenerateTrendsFromPeriodColumnName(t *testing.T) {
	ds := dataset(t, "mes,valor\njan,10\nfev,20\n")

	d := NewDashboardService().Generate("evolução", ds)

	trends := find(t, d, "trends")
	assert.True(t, trends.Relevant)
	assert.Equal(t, []string{"mes"}, trends.Columns)
	assert.False(t, d.DataInfo.HasDates, "mes/ano names do not count as dates")
}

func TestGenerateMatchingIsCaseInsensitive(t *testing.T) {
	d := NewDashboardService().Generate("QUAL O TOTAL?", dataset(t, salesCSV))

	assert.True(t, find(t, d, "aggregation").Relevant)
	assert.Equal(t, "aggregation", d.Analyses[0].ID)
}

func TestGenerateComparisonDescriptionListsThreeColumns(t *testing.T) {
	ds := dataset(t, "a,b,c,d\nw,x,y,z\n")

	d := NewDashboardService().Generate("", ds)

	assert.Equal(t, []string{"comparison", "distribution"}, ids(d.Analyses))
	assert.Equal(t, "Compare a, b, c", find(t, d, "comparison").Description)
}

func TestGenerateSingleNumericColumn(t *testing.T) {
	d := NewDashboardService().Generate("", dataset(t, "valor\n1\n2\n"))

	assert.Equal(t, []string{"descriptive", "anomalies", "distribution", "aggregation"}, ids(d.Analyses))
}
