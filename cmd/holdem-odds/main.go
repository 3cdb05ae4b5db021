package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/tablecraft/holdem/internal/deck"
	"github.com/tablecraft/holdem/internal/evaluator"
)

var CLI struct {
	Hand      string `arg:"" help:"Hero hole cards, e.g. 'AcKd'"`
	Board     string `short:"b" help:"Community cards already dealt, e.g. 'Td7s8h'"`
	Opponents int    `short:"o" default:"1" help:"Number of random opponents"`
	Samples   int    `short:"n" default:"100000" help:"Number of Monte Carlo samples"`
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	handStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tieStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("holdem-odds"),
		kong.Description("Monte Carlo equity estimate against random opponents"))

	hole, err := deck.ParseCards(strip(CLI.Hand))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid hand: %v\n", err)
		kctx.Exit(1)
	}

	var board []deck.Card
	if CLI.Board != "" {
		board, err = deck.ParseCards(strip(CLI.Board))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid board: %v\n", err)
			kctx.Exit(1)
		}
	}

	// Ctrl-C cancels a long estimate rather than killing it mid-print.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	eq, err := evaluator.EstimateEquity(ctx, hole, board, CLI.Opponents, CLI.Samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		kctx.Exit(1)
	}
	elapsed := time.Since(start)

	if len(board) > 0 {
		fmt.Printf("%s\n%s\n\n", headerStyle.Render("board"), formatCards(board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("share"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\n",
		handStyle.Render(formatCards(hole)),
		winStyle.Render(fmt.Sprintf("%.1f%%", eq.Win*100)),
		tieStyle.Render(fmt.Sprintf("%.1f%%", eq.Tie*100)),
		eq.Share()*100)
	w.Flush()

	fmt.Printf("\n%d samples vs %d opponents in %v\n", eq.Samples, CLI.Opponents, elapsed.Truncate(time.Millisecond))
}

func strip(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
