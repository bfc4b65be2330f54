package models

import "csv-analyzer/internal/analysis"

// InfoResponse is returned by GET /
type InfoResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
	Version   string            `json:"version"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status           string `json:"status"`
	GeminiConfigured bool   `json:"gemini_configured"`
	CSVLoaded        bool   `json:"csv_loaded"`
}

// MessageResponse carries a human-readable message, used for errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse is returned after a dataset replaced the live one
type UploadResponse struct {
	Message   string                   `json:"message"`
	DatasetID string                   `json:"dataset_id"`
	Columns   []string                 `json:"columns"`
	Rows      int                      `json:"rows"`
	Preview   []map[string]interface{} `json:"preview"`
}

// ChatRequest is the body of POST /chat and POST /dashboard
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponse is returned by POST /chat. Dashboard is omitted on errors.
type ChatResponse struct {
	Reply     string     `json:"reply"`
	Dashboard *Dashboard `json:"dashboard,omitempty"`
}

// LoadTableRequest for POST /load_table
type LoadTableRequest struct {
	Table string `json:"table" validate:"required"`
	Limit int    `json:"limit" validate:"gte=0,lte=100000"`
}

// TablesResponse for GET /tables
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// ProfileResponse for GET /profile
type ProfileResponse struct {
	DatasetID string                   `json:"dataset_id"`
	Name      string                   `json:"name"`
	Rows      int                      `json:"rows"`
	Columns   []analysis.ColumnProfile `json:"columns"`
}
