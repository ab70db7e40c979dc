package writer

import (
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
)

const (
	colConversion = "Conversion"
	colSources    = "Sources"
	colUpdated    = "Updated"
)

var faint = color.New(color.Faint).SprintFunc()

// Row is one rendered query outcome. Failed indicates the query yielded no
// usable result and Text carries the reason instead of a conversion.
type Row struct {
	Text        string
	SourceCount int
	UpdateAt    time.Time
	Failed      bool
}

type tableWriter struct {
	*uilive.Writer
	table *tablewriter.Table
}

// Set up ascii table writer
func NewTableWriter() *tableWriter {
	tw := &tableWriter{Writer: uilive.New()}
	tw.Writer.Out = colorable.NewColorableStdout() // For Windows
	tw.table = tablewriter.NewWriter(tw.Writer)
	tw.table.SetAutoFormatHeaders(false)
	tw.table.SetAutoWrapText(false)
	headers := []string{colConversion, colSources, colUpdated}
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	tw.table.SetHeader(formattedHeaders)
	tw.table.SetRowLine(true)
	tw.table.SetCenterSeparator(faint("-"))
	tw.table.SetColumnSeparator(faint("|"))
	tw.table.SetRowSeparator(faint("-"))
	return tw
}

func (tw *tableWriter) Render(rows []Row) {
	tw.table.ClearRows()
	for _, row := range rows {
		if row.Failed {
			tw.table.Append([]string{color.RedString(row.Text), faint("-"), faint("-")})
			continue
		}
		updated := faint("-")
		if !row.UpdateAt.IsZero() {
			updated = row.UpdateAt.Format("15:04:05")
		}
		tw.table.Append([]string{row.Text, strconv.Itoa(row.SourceCount), updated})
	}
	tw.table.Render()
	tw.Flush()
}
