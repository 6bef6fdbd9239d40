package tokens

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// labelWidth bounds the Agent column.
const labelWidth = 16

var printer = message.NewPrinter(language.English)

// FormatTokens renders n with thousands separators.
func FormatTokens(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatCost renders a USD amount, with four decimals below one cent.
func FormatCost(c float64) string {
	if c < 0.01 {
		return fmt.Sprintf("$%.4f", c)
	}
	return printer.Sprintf("$%.2f", c)
}

func label(id string) string {
	r := []rune(id)
	if len(r) <= labelWidth {
		return id
	}
	return string(r[:labelWidth-1]) + "~"
}

// Render writes the usage report for s.
func Render(w io.Writer, s *Summary, p Pricing) error {
	if len(s.Agents) == 0 {
		_, err := fmt.Fprintln(w, "No token usage data found.")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session Token Usage Summary (%d file(s) analyzed)\n", s.Files)
	fmt.Fprintf(&b, "Pricing (per 1M tokens): input $%.2f, output $%.2f, cache write $%.2f, cache read $%.2f\n\n",
		p.Input, p.Output, p.CacheWrite, p.CacheRead)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Agent", "Msgs", "Input", "Output", "Cache Write", "Cache Read", "Cost"})
	for _, id := range s.AgentIDs() {
		tw.AppendRow(usageRow(label(id), s.Agents[id], p))
	}
	total := s.Total()
	tw.AppendFooter(usageRow("TOTAL", total, p))

	right := make([]table.ColumnConfig, 0, 6)
	for i := 2; i <= 7; i++ {
		right = append(right, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(right)
	tw.Style().Format.Footer = text.FormatDefault
	b.WriteString(tw.Render())
	b.WriteString("\n\n")

	if models := total.Models(); len(models) > 0 {
		fmt.Fprintf(&b, "Models: %s\n", strings.Join(models, ", "))
	}
	fmt.Fprintf(&b, "Total tokens processed: %s\n", FormatTokens(total.TotalInput()+total.OutputTokens))
	fmt.Fprintf(&b, "Estimated session cost: %s\n", FormatCost(total.Cost(p)))

	_, err := io.WriteString(w, b.String())
	return err
}

func usageRow(name string, u *Usage, p Pricing) table.Row {
	return table.Row{
		name,
		FormatTokens(u.Messages),
		FormatTokens(u.InputTokens),
		FormatTokens(u.OutputTokens),
		FormatTokens(u.CacheCreationTokens),
		FormatTokens(u.CacheReadTokens),
		FormatCost(u.Cost(p)),
	}
}
