package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContextWithoutDataset(t *testing.T) {
	assert.Equal(t, noDatasetContext, BuildContext(nil, nil))
}

func TestBuildContextIncludesSchemaAndTopThree(t *testing.T) {
	ds := dataset(t, salesCSV)
	// matches comparison, ranking, correlation and aggregation
	dashboard := NewDashboardService().Generate("top total entre regiões e correlação", ds)

	ctx := BuildContext(ds, dashboard)

	assert.Contains(t, ctx, "Colunas: ['data', 'regiao', 'vendedor', 'valor', 'quantidade']")
	assert.Contains(t, ctx, "Total de linhas: 3")
	assert.Contains(t, ctx, "Resumo geral dos dados")
	assert.Contains(t, ctx, "Ana")
	assert.Contains(t, ctx, "ANÁLISES MAIS RELEVANTES")
	assert.Contains(t, ctx, "⚖️ Análise Comparativa")
	assert.Contains(t, ctx, "🏆 Rankings e Top N")
	assert.Contains(t, ctx, "🔗 Análise de Correlações")
	assert.NotContains(t, ctx, "➕ Totais e Agregações")
}

func TestBuildContextWithoutRelevantAnalyses(t *testing.T) {
	ds := dataset(t, salesCSV)

	ctx := BuildContext(ds, NewDashboardService().Generate("olá", ds))

	assert.NotContains(t, ctx, "ANÁLISES MAIS RELEVANTES")
}

func TestSystemPromptAppendsContext(t *testing.T) {
	p := SystemPrompt("CONTEXTO")

	assert.True(t, strings.HasPrefix(p, "Você é um bot especialista"))
	assert.True(t, strings.HasSuffix(p, "CONTEXTO"))
}
