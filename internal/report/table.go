package report

import (
	"strconv"
	"strings"

	"github.com/isseis/go-lzjd/internal/similarity"
	"github.com/isseis/go-lzjd/internal/sink"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func writeTable(out sink.Sink, results []similarity.Result) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"File A", "File B", "Score"})
	for _, r := range results {
		tw.AppendRow(table.Row{r.NameA, r.NameB, strconv.Itoa(r.Score)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	for _, line := range strings.Split(tw.Render(), "\n") {
		if err := out.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}
