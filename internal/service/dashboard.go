package service

import (
	"fmt"
	"sort"
	"strings"

	"csv-analyzer/internal/analysis"
	"csv-analyzer/internal/models"
)

// NoDatasetMessage is returned in place of a dashboard when nothing is loaded.
const NoDatasetMessage = "Nenhum CSV carregado. Por favor, carregue um arquivo primeiro."

// Keyword lists are matched as substrings of the lower-cased question.
var (
	descriptiveKeywords  = []string{"média", "resumo", "estatística", "geral", "descritiva"}
	trendKeywords        = []string{"tendência", "tempo", "crescimento", "evolução", "histórico"}
	comparisonKeywords   = []string{"comparar", "diferença", "versus", "entre", "melhor", "pior"}
	rankingKeywords      = []string{"maior", "menor", "top", "ranking", "melhor", "pior", "mais", "menos"}
	anomalyKeywords      = []string{"anomalia", "outlier", "incomum", "estranho", "problema"}
	correlationKeywords  = []string{"correlação", "relação", "influência", "impacto", "afeta"}
	distributionKeywords = []string{"distribuição", "frequência", "como está", "quantos"}
	aggregationKeywords  = []string{"total", "soma", "quantos", "contar", "agrupar"}
)

// DashboardService ranks the analyses that fit a question and a dataset.
type DashboardService struct{}

func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

// Generate builds the dashboard for question against ds. A nil ds yields an
// unavailable dashboard, never an error.
func (s *DashboardService) Generate(question string, ds *analysis.Dataset) *models.Dashboard {
	if ds == nil {
		return &models.Dashboard{Available: false, Message: NoDatasetMessage}
	}

	numericCols := ds.NumericColumns()
	categoricalCols := ds.CategoricalColumns()
	dateCols, periodCols := dateLikeColumns(ds.ColumnNames())

	q := strings.ToLower(question)
	analyses := []models.Analysis{}

	if len(numericCols) > 0 {
		analyses = append(analyses, models.Analysis{
			ID:          "descriptive",
			Name:        "📊 Análise Descritiva",
			Description: "Estatísticas básicas: média, mediana, min, max, desvio padrão",
			Relevant:    containsAny(q, descriptiveKeywords),
			Columns:     numericCols,
		})
	}

	if len(dateCols) > 0 || len(periodCols) > 0 {
		cols := dateCols
		if len(cols) == 0 {
			cols = periodCols
		}
		analyses = append(analyses, models.Analysis{
			ID:          "trends",
			Name:        "📈 Análise de Tendências",
			Description: "Padrões ao longo do tempo, crescimento, sazonalidade",
			Relevant:    containsAny(q, trendKeywords),
			Columns:     cols,
		})
	}

	if len(categoricalCols) > 0 {
		analyses = append(analyses, models.Analysis{
			ID:          "comparison",
			Name:        "⚖️ Análise Comparativa",
			Description: fmt.Sprintf("Compare %s", strings.Join(firstN(categoricalCols, 3), ", ")),
			Relevant:    containsAny(q, comparisonKeywords),
			Columns:     categoricalCols,
		})
	}

	if len(categoricalCols) > 0 && len(numericCols) > 0 {
		analyses = append(analyses, models.Analysis{
			ID:          "ranking",
			Name:        "🏆 Rankings e Top N",
			Description: "Identificar maiores, menores, melhores performances",
			Relevant:    containsAny(q, rankingKeywords),
			Columns:     concat(categoricalCols, numericCols),
		})
	}

	if len(numericCols) > 0 {
		analyses = append(analyses, models.Analysis{
			ID:          "anomalies",
			Name:        "🔍 Detecção de Anomalias",
			Description: "Identificar valores incomuns ou outliers",
			Relevant:    containsAny(q, anomalyKeywords),
			Columns:     numericCols,
		})
	}

	if len(numericCols) >= 2 {
		analyses = append(analyses, models.Analysis{
			ID:          "correlation",
			Name:        "🔗 Análise de Correlações",
			Description: "Relações entre diferentes variáveis numéricas",
			Relevant:    containsAny(q, correlationKeywords),
			Columns:     numericCols,
		})
	}

	if len(numericCols) > 0 || len(categoricalCols) > 0 {
		analyses = append(analyses, models.Analysis{
			ID:          "distribution",
			Name:        "📉 Análise de Distribuição",
			Description: "Como os dados estão distribuídos, frequências",
			Relevant:    containsAny(q, distributionKeywords),
			Columns:     concat(numericCols, categoricalCols),
		})
	}

	if len(numericCols) > 0 {
		analyses = append(analyses, models.Analysis{
			ID:          "aggregation",
			Name:        "➕ Totais e Agregações",
			Description: "Somas, contagens, agrupamentos",
			Relevant:    containsAny(q, aggregationKeywords),
			Columns:     concat(numericCols, categoricalCols),
		})
	}

	// Relevant first; ties keep construction order.
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].Relevant && !analyses[j].Relevant
	})

	return &models.Dashboard{
		Available:     true,
		TotalAnalyses: len(analyses),
		Analyses:      analyses,
		DataInfo: models.DataInfo{
			Rows:               ds.Rows(),
			Columns:            len(ds.ColumnNames()),
			NumericColumns:     len(numericCols),
			CategoricalColumns: len(categoricalCols),
			HasDates:           len(dateCols) > 0,
		},
	}
}

// dateLikeColumns goes by column name only. dates holds names containing
// "data" or "date"; periods holds names containing "mes" or "ano".
func dateLikeColumns(names []string) (dates, periods []string) {
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "data") || strings.Contains(lower, "date") {
			dates = append(dates, name)
		}
		if strings.Contains(lower, "mes") || strings.Contains(lower, "ano") {
			periods = append(periods, name)
		}
	}
	return dates, periods
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
