package service

import (
	"fmt"
	"strings"

	"csv-analyzer/internal/analysis"
	"csv-analyzer/internal/models"
)

const (
	// SampleRows is how many rows of the dataset go into the prompt.
	SampleRows = 100
	// promptAnalyses is how many relevant dashboard entries go into the prompt.
	promptAnalyses = 3
)

const noDatasetContext = "Nenhum arquivo CSV foi carregado ainda. Por favor, carregue um arquivo CSV para análise.\n"

const systemPromptHeader = "Você é um bot especialista em análise de dados com uma NOVA FUNCIONALIDADE:\n\n" +
	"🎯 MODO DE OPERAÇÃO:\n" +
	"1. PRIMEIRO: Sempre apresente um mini-dashboard das análises mais relevantes que você pode fazer\n" +
	"2. DEPOIS: Execute a análise principal solicitada\n" +
	"3. FINALMENTE: Ofereça fazer análises complementares\n\n" +
	"📊 TIPOS DE ANÁLISES QUE VOCÊ DOMINA:\n" +
	"- Análise Descritiva: estatísticas básicas e resumos\n" +
	"- Análise de Tendências: padrões temporais e evolução\n" +
	"- Análise Comparativa: diferenças entre categorias\n" +
	"- Rankings: identificar top performers\n" +
	"- Detecção de Anomalias: valores incomuns\n" +
	"- Correlações: relações entre variáveis\n" +
	"- Distribuições: como os dados estão espalhados\n" +
	"- Agregações: totais e agrupamentos\n\n" +
	"💡 FORMATO DE RESPOSTA IDEAL:\n" +
	"```\n" +
	"🎯 ANÁLISES DISPONÍVEIS PARA SUA PERGUNTA:\n" +
	"[Liste 2-3 análises mais relevantes]\n\n" +
	"📊 ANÁLISE PRINCIPAL:\n" +
	"[Responda a pergunta do usuário com dados concretos]\n\n" +
	"💡 PRÓXIMOS PASSOS:\n" +
	"[Sugira 1-2 análises complementares]\n" +
	"```\n\n" +
	"IMPORTANTE: Use o contexto fornecido para responder às perguntas, " +
	"oferecendo insights, tendências e conclusões possíveis. " +
	"Evite repetir o conteúdo do CSV; em vez disso, explique e interprete os dados.\n\n"

// BuildContext describes ds for the model: schema, summary statistics, a
// sample of rows and the most relevant analyses from dashboard.
func BuildContext(ds *analysis.Dataset, dashboard *models.Dashboard) string {
	if ds == nil {
		return noDatasetContext
	}

	var sb strings.Builder
	sb.WriteString("Você tem acesso aos seguintes dados de um arquivo CSV:\n")
	fmt.Fprintf(&sb, "Colunas: %s\n", formatList(ds.ColumnNames()))
	fmt.Fprintf(&sb, "Total de linhas: %d\n\n", ds.Rows())
	fmt.Fprintf(&sb, "Resumo geral dos dados (numéricos e categóricos):\n%s\n\n", ds.DescribeMarkdown())
	fmt.Fprintf(&sb, "Amostra de %d linhas do dataset:\n%s\n", SampleRows, ds.SampleMarkdown(SampleRows))
	sb.WriteString(relevantAnalysesSection(dashboard))
	sb.WriteString("\n")
	return sb.String()
}

func relevantAnalysesSection(dashboard *models.Dashboard) string {
	if dashboard == nil || !dashboard.Available {
		return ""
	}
	relevant := dashboard.Relevant()
	if len(relevant) == 0 {
		return ""
	}
	if len(relevant) > promptAnalyses {
		relevant = relevant[:promptAnalyses]
	}

	var sb strings.Builder
	sb.WriteString("\n\n🎯 ANÁLISES MAIS RELEVANTES PARA ESTA PERGUNTA:\n")
	for _, a := range relevant {
		fmt.Fprintf(&sb, "- %s: %s\n", a.Name, a.Description)
	}
	return sb.String()
}

// SystemPrompt is the fixed analyst instruction followed by the data context.
func SystemPrompt(context string) string {
	return systemPromptHeader + context
}

// formatList renders names as a bracketed, quoted list: ['a', 'b'].
func formatList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
