package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"csv-analyzer/internal/analysis"
	"csv-analyzer/internal/logger"
	"csv-analyzer/internal/models"
	"csv-analyzer/internal/observability"
	"csv-analyzer/internal/service"
	"csv-analyzer/internal/state"
)

const (
	// UploadField is the multipart field carrying the CSV file.
	UploadField = "csv_file"
	// PreviewRows is how many rows an upload response shows.
	PreviewRows = 5
	// DefaultMaxUploadBytes applies when the handler is built with no limit.
	DefaultMaxUploadBytes = 16 << 20
)

// ChatClient answers a question given the analyst system prompt.
type ChatClient interface {
	Configured() bool
	Reply(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type Handler struct {
	State          *state.AppState
	Dashboard      *service.DashboardService
	LLM            ChatClient
	DB             service.DataSource // nil when no database is configured
	Metrics        *observability.Collector
	MaxUploadBytes int64

	validate *validator.Validate
}

func NewHandler(st *state.AppState, dash *service.DashboardService, llmClient ChatClient, db service.DataSource, metrics *observability.Collector, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		State:          st,
		Dashboard:      dash,
		LLM:            llmClient,
		DB:             db,
		Metrics:        metrics,
		MaxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/health", h.HealthCheck)
	r.Post("/upload_csv", h.UploadCSV)
	r.Post("/chat", h.Chat)
	r.Post("/dashboard", h.GetDashboard)
	r.Get("/profile", h.GetProfile)

	// Database source
	r.Get("/tables", h.ListTables)
	r.Post("/load_table", h.LoadTable)
}

// ============================================================================
// Info & Health
// ============================================================================

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.InfoResponse{
		Message: "Bem-vindo à CSV Analizer!",
		Status:  "online",
		Endpoints: map[string]string{
			"health":     "/health",
			"chat":       "/chat (POST)",
			"upload_csv": "/upload_csv (POST)",
			"dashboard":  "/dashboard (POST)",
		},
		Version: "1.0",
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:           "ok",
		GeminiConfigured: h.LLM != nil && h.LLM.Configured(),
		CSVLoaded:        h.State.Loaded(),
	})
}

// ============================================================================
// Upload
// ============================================================================

func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Arquivo muito grande. O limite é de %d MB.", h.MaxUploadBytes>>20))
			return
		}
		writeMessage(w, http.StatusBadRequest, "Nenhum arquivo enviado")
		return
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		// A part with an empty filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value[UploadField]; ok {
			writeMessage(w, http.StatusBadRequest, "Nenhum arquivo selecionado")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Nenhum arquivo enviado")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeMessage(w, http.StatusBadRequest, "Nenhum arquivo selecionado")
		return
	}
	if !strings.HasSuffix(header.Filename, ".csv") {
		writeMessage(w, http.StatusBadRequest, "Formato de arquivo inválido. Por favor, envie um arquivo CSV.")
		return
	}

	ds, err := analysis.ParseCSV(file, header.Filename)
	h.recordLoad("upload", ds, err)
	if err != nil {
		logger.Log.Warnf("❌ Failed to parse %s: %v", header.Filename, err)
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Erro ao processar o arquivo CSV: %v", err))
		return
	}

	h.State.Replace(ds)
	logger.Log.Infof("📁 Loaded %s (%d rows, %d columns)", header.Filename, ds.Rows(), len(ds.ColumnNames()))

	writeJSON(w, http.StatusOK, uploadResponse(" Arquivo CSV carregado e pronto para análise!", ds))
}

func uploadResponse(message string, ds *analysis.Dataset) models.UploadResponse {
	return models.UploadResponse{
		Message:   message,
		DatasetID: ds.ID,
		Columns:   ds.ColumnNames(),
		Rows:      ds.Rows(),
		Preview:   ds.Preview(PreviewRows),
	}
}

func (h *Handler) recordLoad(source string, ds *analysis.Dataset, err error) {
	if h.Metrics == nil {
		return
	}
	rows := 0
	if ds != nil {
		rows = ds.Rows()
	}
	h.Metrics.RecordDatasetLoad(source, rows, err)
}

// ============================================================================
// Chat
// ============================================================================

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	// An undecodable body counts as an absent message.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{Reply: "Por favor, digite uma mensagem."})
		return
	}

	if h.LLM == nil || !h.LLM.Configured() {
		writeJSON(w, http.StatusInternalServerError, models.ChatResponse{
			Reply: "Erro: a chave da API do Gemini não foi configurada.",
		})
		return
	}

	// One read of the holder so the dashboard and the prompt agree.
	ds := h.State.Dataset()
	dashboard := h.Dashboard.Generate(req.Message, ds)
	systemPrompt := service.SystemPrompt(service.BuildContext(ds, dashboard))

	reply, err := h.LLM.Reply(r.Context(), systemPrompt, req.Message)
	if h.Metrics != nil {
		h.Metrics.RecordLLMCall(err)
	}
	if err != nil {
		logger.Log.Errorf("❌ Erro na API Gemini: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ChatResponse{
			Reply: fmt.Sprintf(" Erro ao se comunicar com a IA: %v", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		Reply:     reply,
		Dashboard: dashboard,
	})
}

// ============================================================================
// Dashboard
// ============================================================================

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	writeJSON(w, http.StatusOK, h.Dashboard.Generate(req.Message, h.State.Dataset()))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ds := h.State.Dataset()
	if ds == nil {
		writeMessage(w, http.StatusNotFound, service.NoDatasetMessage)
		return
	}

	writeJSON(w, http.StatusOK, models.ProfileResponse{
		DatasetID: ds.ID,
		Name:      ds.Name,
		Rows:      ds.Rows(),
		Columns:   ds.Profile(),
	})
}

// ============================================================================
// Database Source
// ============================================================================

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeMessage(w, http.StatusBadRequest, "Nenhum banco de dados configurado")
		return
	}

	tables, err := h.DB.ListTables(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Erro ao listar tabelas: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, models.TablesResponse{Tables: tables})
}

func (h *Handler) LoadTable(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeMessage(w, http.StatusBadRequest, "Nenhum banco de dados configurado")
		return
	}

	var req models.LoadTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Requisição inválida: %v", err))
		return
	}

	records, err := h.DB.LoadTable(r.Context(), req.Table, req.Limit)
	if err != nil {
		h.recordLoad("postgres", nil, err)
		if errors.Is(err, service.ErrUnknownTable) {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Tabela desconhecida: %s", req.Table))
			return
		}
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Erro ao carregar a tabela: %v", err))
		return
	}

	ds, err := analysis.FromRecords(req.Table, records)
	h.recordLoad("postgres", ds, err)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Erro ao processar a tabela: %v", err))
		return
	}

	h.State.Replace(ds)
	logger.Log.Infof("🗄️ Loaded table %s (%d rows)", req.Table, ds.Rows())

	writeJSON(w, http.StatusOK, uploadResponse(" Tabela carregada e pronta para análise!", ds))
}

// ============================================================================
// Helpers
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.MessageResponse{Message: message})
}
