package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"holdco/internal/game"
	"holdco/internal/store"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func renderState(st *game.GameState) {
	accent.Printf("\n== %s (%s) ==\n", strings.ToUpper(st.Mode), st.ID)
	fmt.Printf("Round %d/%d   Macro: %s   Outcome: %s\n", st.Round, st.MaxRounds, st.Macro, st.Outcome)
	fmt.Printf("Cash: %s   Net debt: %s   EBITDA: %s\n",
		formatMoney(st.CashMicros),
		formatMoney(st.NetDebtMicros()),
		formatMoney(st.PortfolioEBITDAMicros()))
	fmt.Printf("Covenant: %s", colorizeCovenant(st.Covenant))
	if st.BreachRounds > 0 {
		danger.Printf("  (%d breach rounds)", st.BreachRounds)
	}
	if st.Restructured {
		warn.Printf("  [restructured]")
	}
	fmt.Println()
	fmt.Printf("Founder ownership: %.1f%%   Sourcing tier: %d   Turnaround tier: %d\n",
		game.BpsToFrac(st.FounderOwnershipBps())*100, st.SourcingTier, st.TurnaroundTier)
	if len(st.Services) > 0 {
		fmt.Printf("Services: %s\n", strings.Join(st.Services, ", "))
	}
	if len(st.History) > 0 {
		last := st.History[len(st.History)-1]
		fmt.Printf("Last round FCF: %s   FEV: %s\n",
			colorizeMoney(last.NetFCFMicros), formatMoney(last.FEVMicros))
	}
	if st.Score != nil {
		renderScore(*st.Score)
	}
	fmt.Println()
}

func renderDeals(st *game.GameState) {
	accent.Printf("\n== DEAL PIPELINE (round %d) ==\n", st.Round)
	if len(st.Deals) == 0 {
		printInfo("No deals on the desk.")
		return
	}
	fmt.Printf("%-10s %-22s %-14s %-8s %-4s %10s %7s %-10s %-16s\n",
		"ID", "NAME", "SECTOR", "TIER", "Q", "EBITDA", "ASK", "HEAT", "STRUCTURES")
	for _, d := range st.Deals {
		structures := make([]string, 0, len(d.Structures))
		for _, s := range d.Structures {
			structures = append(structures, string(s))
		}
		fmt.Printf("%-10s %-22s %-14s %-8s %-4d %10s %6.2fx %-10s %-16s\n",
			d.ID,
			truncate(d.Name, 22),
			d.Sector+"/"+d.SubType,
			d.Tier,
			d.Quality,
			formatMoney(d.EBITDAMicros),
			game.CentiToMult(d.AskMultCenti),
			d.Heat,
			truncate(strings.Join(structures, ","), 16),
		)
	}
	fmt.Println()
}

func renderPortfolio(st *game.GameState) {
	accent.Printf("\n== PORTFOLIO ==\n")
	live := st.ActivePortfolio()
	if len(live) == 0 {
		printInfo("No operating businesses.")
		return
	}
	fmt.Printf("%-10s %-22s %-14s %-4s %10s %8s %10s %-12s %-10s\n",
		"ID", "NAME", "SECTOR", "Q", "EBITDA", "MARGIN", "DEBT", "INTEGRATION", "PLATFORM")
	for _, b := range live {
		fmt.Printf("%-10s %-22s %-14s %-4d %10s %7.1f%% %10s %-12s %-10s\n",
			b.ID,
			truncate(b.Name, 22),
			b.Sector+"/"+b.SubType,
			b.Quality,
			formatMoney(b.EBITDAMicros),
			game.BpsToFrac(b.MarginBps)*100,
			formatMoney(b.DebtMicros()),
			b.Integration,
			b.PlatformID,
		)
	}
	for _, p := range st.Platforms {
		fmt.Printf("\nPlatform %s (%s): scale %d, %d members", p.ID, p.Name, p.Scale, len(p.Members))
		if p.Forged {
			success.Printf("  [forged]")
		}
		fmt.Println()
	}
	fmt.Println()
}

func renderResult(res game.ActionResult) {
	if res.OK {
		printSuccess(fmt.Sprintf("%s ok  (cash %s)", res.Kind, colorizeMoney(res.CashDeltaMicros)))
	} else {
		danger.Printf("%s rejected: %s\n", res.Kind, res.Reason)
	}
	for k, v := range res.Details {
		fmt.Printf("  %s: %v\n", k, v)
	}
}

func renderScore(s game.ScoreBreakdown) {
	accent.Printf("\n== FINAL SCORE ==\n")
	fmt.Printf("%-16s %4d/25\n", "Value creation", s.ValueCreation)
	fmt.Printf("%-16s %4d/15\n", "FCF growth", s.FCFGrowth)
	fmt.Printf("%-16s %4d/15\n", "ROIC", s.ROIC)
	fmt.Printf("%-16s %4d/15\n", "Deployment", s.Deployment)
	fmt.Printf("%-16s %4d/15\n", "Balance sheet", s.BalanceSheet)
	fmt.Printf("%-16s %4d/15\n", "Discipline", s.Discipline)
	fmt.Printf("%-16s %4d/100   Grade: %s\n", "Total", s.Total, gradeColor(s.Grade))
}

func renderAnalytics(a game.Analytics) {
	accent.Printf("\n== PLAY STYLE ==\n")
	fmt.Printf("Archetype: %s\n", a.Archetype)
	if len(a.AntiPatterns) > 0 {
		warn.Printf("Anti-patterns: %s\n", strings.Join(a.AntiPatterns, ", "))
	}
	fmt.Printf("Sophistication: %d/10\n\n", a.Sophistication)
}

func renderGameRows(rows []store.GameRow) {
	accent.Printf("\n== SAVED GAMES ==\n")
	if len(rows) == 0 {
		printInfo("No saved games.")
		return
	}
	fmt.Printf("%-38s %-14s %-8s %-12s %s\n", "ID", "MODE", "ROUND", "OUTCOME", "UPDATED")
	for _, r := range rows {
		fmt.Printf("%-38s %-14s %-8d %-12s %s\n",
			r.ID, r.Mode, r.Round, r.Outcome, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
}

func renderLeaderboard(rows []store.LeaderboardRow, title string) {
	accent.Printf("\n== %s ==\n", strings.ToUpper(title))
	if len(rows) == 0 {
		printInfo("No runs submitted yet.")
		return
	}
	fmt.Printf("%-6s %-18s %14s %7s %-5s\n", "RANK", "PLAYER", "FEV", "SCORE", "GRADE")
	for _, row := range rows {
		fmt.Printf("%-6d %-18s %14s %7d %-5s\n",
			row.Rank,
			truncate(row.Player, 18),
			formatMoney(row.FEVMicros),
			row.ScoreTotal,
			row.Grade,
		)
	}
	fmt.Println()
}

func colorizeCovenant(c game.CovenantState) string {
	switch c {
	case game.CovenantHealthy:
		return success.Sprint(string(c))
	case game.CovenantElevated:
		return neutral.Sprint(string(c))
	case game.CovenantWatch:
		return warn.Sprint(string(c))
	case game.CovenantBreach:
		return danger.Sprint(string(c))
	default:
		return string(c)
	}
}

func gradeColor(grade string) string {
	switch {
	case strings.HasPrefix(grade, "A") || strings.HasPrefix(grade, "S"):
		return success.Sprint(grade)
	case strings.HasPrefix(grade, "B") || strings.HasPrefix(grade, "C"):
		return warn.Sprint(grade)
	default:
		return danger.Sprint(grade)
	}
}

func colorizeMoney(v int64) string {
	text := formatMoney(v)
	if v > 0 {
		text = "+" + text
	}
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

// formatMoney renders micros of units as $thousands, e.g. 2_500_000 micros
// of 2.5 units prints as $2,500k.
func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	thousands := v / game.MicrosPerUnit
	frac := (v % game.MicrosPerUnit) * 10 / game.MicrosPerUnit
	if frac == 0 {
		return fmt.Sprintf("%s$%sk", sign, comma(thousands))
	}
	return fmt.Sprintf("%s$%s.%dk", sign, comma(thousands), frac)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
