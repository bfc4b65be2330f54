package models

import "encoding/json"

// Analysis is a suggested analysis category for a question.
type Analysis struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Relevant    bool     `json:"relevant"`
	Columns     []string `json:"columns"`
}

// DataInfo summarizes the dataset the dashboard was built from.
type DataInfo struct {
	Rows               int  `json:"rows"`
	Columns            int  `json:"columns"`
	NumericColumns     int  `json:"numeric_columns"`
	CategoricalColumns int  `json:"categorical_columns"`
	HasDates           bool `json:"has_dates"`
}

// Dashboard is the ranked list of analyses for a question. When Available is
// false only Message is meaningful.
type Dashboard struct {
	Available     bool
	Message       string
	TotalAnalyses int
	Analyses      []Analysis
	DataInfo      DataInfo
}

// Relevant returns the relevant analyses in ranked order.
func (d *Dashboard) Relevant() []Analysis {
	out := []Analysis{}
	for _, a := range d.Analyses {
		if a.Relevant {
			out = append(out, a)
		}
	}
	return out
}

func (d Dashboard) MarshalJSON() ([]byte, error) {
	if !d.Available {
		return json.Marshal(struct {
			Available bool   `json:"available"`
			Message   string `json:"message"`
		}{d.Available, d.Message})
	}

	analyses := d.Analyses
	if analyses == nil {
		analyses = []Analysis{}
	}
	return json.Marshal(struct {
		Available     bool       `json:"available"`
		TotalAnalyses int        `json:"total_analyses"`
		Analyses      []Analysis `json:"analyses"`
		DataInfo      DataInfo   `json:"data_info"`
	}{d.Available, d.TotalAnalyses, analyses, d.DataInfo})
}

func (d *Dashboard) UnmarshalJSON(data []byte) error {
	var raw struct {
		Available     bool       `json:"available"`
		Message       string     `json:"message"`
		TotalAnalyses int        `json:"total_analyses"`
		Analyses      []Analysis `json:"analyses"`
		DataInfo      DataInfo   `json:"data_info"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Dashboard{
		Available:     raw.Available,
		Message:       raw.Message,
		TotalAnalyses: raw.TotalAnalyses,
		Analyses:      raw.Analyses,
		DataInfo:      raw.DataInfo,
	}
	return nil
}
