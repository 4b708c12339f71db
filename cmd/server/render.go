package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/gonsam85/assets/internal/domain"
	"github.com/gonsam85/assets/internal/usecase/valuation"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	gainStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// renderSnapshot formats a valuation cycle for the terminal
func renderSnapshot(snap *valuation.Snapshot, settings domain.Settings) string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(fmt.Sprintf("%s's net worth", settings.Nickname)))
	s.WriteString("\n\n")

	// Totals
	var totals strings.Builder
	fmt.Fprintf(&totals, "%-14s %s\n", "Net worth", domain.FormatMoney(snap.NetWorth, domain.HomeCurrency))
	fmt.Fprintf(&totals, "%-14s %s (%s today)\n",
		"Assets",
		domain.FormatMoney(snap.TotalAssets, domain.HomeCurrency),
		domain.FormatPercent(decimal.NewNullDecimal(snap.DailyPercent(snap.TotalAssets))))
	fmt.Fprintf(&totals, "%-14s %s\n", "Loans", domain.FormatMoney(snap.TotalLoans, domain.HomeCurrency))
	fmt.Fprintf(&totals, "%-14s %s (%s)",
		"Today",
		colorize(snap.DailyChangeTotal, domain.FormatMoney(snap.DailyChangeTotal, domain.HomeCurrency)),
		domain.FormatPercent(decimal.NewNullDecimal(snap.DailyPercent(snap.NetWorth))))
	s.WriteString(sectionStyle.Render(totals.String()))
	s.WriteString("\n\n")

	// Holdings
	var holdings strings.Builder
	for i, v := range snap.Assets {
		if i > 0 {
			holdings.WriteString("\n")
		}
		fmt.Fprintf(&holdings, "%-20s %-12s %18s  %-4s  roi %s",
			truncate(v.Asset.Name, 20),
			v.Asset.Type,
			domain.FormatMoney(v.Value, domain.HomeCurrency),
			v.Basis,
			domain.FormatPercent(v.ROI))
		if v.Basis == valuation.BasisLive {
			holdings.WriteString("  today " + colorize(v.DailyChange, domain.FormatPercent(v.DailyChangePercent)))
		}
	}
	if len(snap.Assets) == 0 {
		holdings.WriteString("No assets yet")
	}
	s.WriteString(sectionStyle.Render(holdings.String()))
	s.WriteString("\n\n")

	// Allocation
	if len(snap.Allocation) > 0 {
		parts := make([]string, 0, len(snap.Allocation))
		for _, slice := range snap.Allocation {
			parts = append(parts, fmt.Sprintf("%s %s%%", slice.Type, slice.Percent.StringFixed(1)))
		}
		s.WriteString(summaryStyle.Render("Allocation: " + strings.Join(parts, " | ")))
		s.WriteString("\n")
	}

	progress := settings.Progress(snap.NetWorth)
	s.WriteString(summaryStyle.Render(fmt.Sprintf("Goal %s: %s%% reached, %s to go",
		domain.FormatMoney(settings.GoalAmount, domain.HomeCurrency),
		progress.Percent.StringFixed(1),
		domain.FormatMoney(progress.Remaining, domain.HomeCurrency))))
	s.WriteString("\n")

	live, book := snap.Counts()
	footer := fmt.Sprintf("USD/KRW %s | live %d | book %d | cycle %d",
		snap.FXRate.StringFixed(2), live, book, snap.Cycle)
	s.WriteString(summaryStyle.Render(footer))
	s.WriteString("\n")

	if snap.FXStale {
		s.WriteString(warnStyle.Render("FX rate is stale, using the last known rate"))
		s.WriteString("\n")
	}
	if snap.QuotesDegraded {
		s.WriteString(warnStyle.Render("Some quotes are missing, those holdings are shown at book value"))
		s.WriteString("\n")
	}

	return s.String()
}

// renderQuotes formats quotes one per line
func renderQuotes(quotes []domain.Quote, missing []string) string {
	var s strings.Builder
	for _, q := range quotes {
		change := decimal.NullDecimal{}
		if q.PrevClose.IsPositive() {
			change = decimal.NewNullDecimal(q.Price.Sub(q.PrevClose).Div(q.PrevClose).Mul(decimal.NewFromInt(100)))
		}
		line := fmt.Sprintf("%-10s %14s %-4s %s",
			q.Ticker, q.Price.String(), q.Currency, domain.FormatPercent(change))
		s.WriteString(colorize(q.Price.Sub(q.PrevClose), line))
		s.WriteString("\n")
	}
	for _, ticker := range missing {
		s.WriteString(warnStyle.Render(fmt.Sprintf("%-10s unavailable", ticker)))
		s.WriteString("\n")
	}
	return s.String()
}

func colorize(sign decimal.Decimal, text string) string {
	switch {
	case sign.IsPositive():
		return gainStyle.Render(text)
	case sign.IsNegative():
		return lossStyle.Render(text)
	}
	return text
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
