package cmd

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
)

const titleWidth = 48

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	// keep header case as given
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// bookmarkRows lays out one row per bookmark: position, short id, title,
// tags, note count and creation date.
func bookmarkRows(list []bookmarks.Bookmark) [][]string {
	rows := make([][]string, 0, len(list))
	for i, b := range list {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			shortID(b.ID),
			text.Trim(b.Meta.Title, titleWidth),
			strings.Join(b.Tags, ", "),
			strconv.Itoa(len(b.Notes)),
			b.Created().Format("2006-01-02"),
		})
	}
	return rows
}

// tagLine renders tags with the selected ones bracketed
func tagLine(tags []bookmarks.Tag) string {
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag.Selected {
			parts = append(parts, "["+tag.Name+"]")
		} else {
			parts = append(parts, tag.Name)
		}
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
