package analysis

import (
	"strings"

	"github.com/olekukonko/tablewriter"
)

// DescribeUnavailable is used in place of the statistics table when it cannot
// be built.
const DescribeUnavailable = "Não foi possível gerar resumo estatístico."

// DescribeMarkdown renders summary statistics as a markdown table: count,
// mean, std, min, quartiles and max per numeric column, computed over the
// present values only.
func (d *Dataset) DescribeMarkdown() (out string) {
	if d.nrows == 0 {
		return DescribeUnavailable
	}
	// Treat a panic from the frame like a failed describe.
	defer func() {
		if recover() != nil {
			out = DescribeUnavailable
		}
	}()

	return renderMarkdown(d.describeRecords())
}

// SampleMarkdown renders the first n rows as a markdown table.
func (d *Dataset) SampleMarkdown(n int) string {
	limit := n
	if limit > d.nrows {
		limit = d.nrows
	}
	if limit <= 0 {
		return renderMarkdown([][]string{d.ColumnNames()})
	}
	return renderMarkdown(d.frame.Subset(headIndexes(limit)).Records())
}

func renderMarkdown(records [][]string) string {
	if len(records) == 0 {
		return ""
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(records[0])
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(records[1:])
	table.Render()

	return sb.String()
}
