package analysis

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
)

var (
	ErrEmptyFile       = errors.New("no columns to parse from file")
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
)

// missingValues are read as NA by the frame.
var missingValues = []string{
	"", "NA", "N/A", "n/a", "#N/A", "#NA", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "<NA>", "<nil>",
}

// ParseError reports a row that does not fit the header.
type ParseError struct {
	Line     int
	Expected int
	Saw      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error tokenizing data: expected %d fields in line %d, saw %d", e.Expected, e.Line, e.Saw)
}

// ColumnKind is the storage class of a column.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindBool        ColumnKind = "bool"
	// KindUnknown is used when there are no rows to infer from.
	KindUnknown ColumnKind = "unknown"
)

// Column describes one dataset column.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// Dataset is an uploaded table. It is never mutated after construction, so a
// reference can be shared freely between requests.
type Dataset struct {
	ID       string
	Name     string
	LoadedAt time.Time

	columns []Column
	nrows   int
	frame   dataframe.DataFrame
}

// ParseCSV reads a whole CSV payload into a Dataset.
func ParseCSV(r io.Reader, name string) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1 // validated below against the header
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		records = append(records, record)
	}

	return FromRecords(name, records)
}

// FromRecords builds a Dataset from string records, header first.
func FromRecords(name string, records [][]string) (*Dataset, error) {
	if len(records) == 0 || isBlankRecord(records[0]) {
		return nil, ErrEmptyFile
	}

	header := normalizeHeader(records[0])

	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		if len(rec) > len(header) {
			return nil, &ParseError{Line: i + 2, Expected: len(header), Saw: len(rec)}
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	ds := &Dataset{
		ID:       uuid.New().String(),
		Name:     name,
		LoadedAt: time.Now(),
		nrows:    len(rows),
	}

	// A header-only file has nothing to infer types from.
	if len(rows) == 0 {
		ds.columns = make([]Column, len(header))
		for i, h := range header {
			ds.columns[i] = Column{Name: h, Kind: KindUnknown}
		}
		return ds, nil
	}

	all := append([][]string{header}, rows...)
	frame := dataframe.LoadRecords(all,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
	)
	if frame.Err != nil {
		return nil, fmt.Errorf("load records: %w", frame.Err)
	}
	ds.frame = frame

	names := frame.Names()
	types := frame.Types()
	ds.columns = make([]Column, len(names))
	for i, n := range names {
		kind := kindOf(types[i])
		// An all-missing column is float NaN, hence numeric.
		if allMissing(rows, i) {
			kind = KindNumeric
		}
		ds.columns[i] = Column{Name: n, Kind: kind}
	}

	return ds, nil
}

// normalizeHeader trims names, names blank columns "Unnamed: <index>" and
// suffixes repeated names with ".1", ".2", ... in order of appearance.
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for k := 1; seen[name]; k++ {
				name = fmt.Sprintf("%s.%d", base, k)
			}
		}
		seen[name] = true
		header[i] = name
	}
	return header
}

func kindOf(t series.Type) ColumnKind {
	switch t {
	case series.Int, series.Float:
		return KindNumeric
	case series.Bool:
		return KindBool
	default:
		return KindCategorical
	}
}

func allMissing(rows [][]string, col int) bool {
	for _, row := range rows {
		if !isMissing(row[col]) {
			return false
		}
	}
	return true
}

func isMissing(v string) bool {
	for _, m := range missingValues {
		if v == m {
			return true
		}
	}
	return false
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter picks ';' only when the header line has semicolons and no
// commas. Everything else is read as comma separated.
func sniffDelimiter(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	if !strings.Contains(line, ",") && strings.Contains(line, ";") {
		return ';'
	}
	return ','
}

// Rows returns the number of data rows.
func (d *Dataset) Rows() int {
	return d.nrows
}

// Columns returns the columns in file order.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in file order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the names of numeric columns.
func (d *Dataset) NumericColumns() []string {
	return d.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns the names of textual columns.
func (d *Dataset) CategoricalColumns() []string {
	return d.columnsOfKind(KindCategorical)
}

func (d *Dataset) columnsOfKind(kind ColumnKind) []string {
	names := []string{}
	for _, c := range d.columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// Preview returns the first n rows as records keyed by column name. Missing
// values are nil so the result is always JSON encodable.
func (d *Dataset) Preview(n int) []map[string]interface{} {
	limit := n
	if limit > d.nrows {
		limit = d.nrows
	}
	if limit <= 0 {
		return []map[string]interface{}{}
	}

	head := d.frame.Subset(headIndexes(limit))
	records := head.Maps()
	for _, rec := range records {
		for k, v := range rec {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				rec[k] = nil
			}
		}
	}
	return records
}

func headIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
