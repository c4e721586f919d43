package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const lineWidth = 46

var numbers = message.NewPrinter(language.English)

// ── Startup display helpers ────────────────────────────────────────

func printBanner(runID string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m               grav  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m    gravity · electrostatics · collisions  \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mrun:\033[0m \033[90m%s\033[0m\n\n", runID)
}

func printSection(title string) {
	lineLen := lineWidth - runewidth.StringWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	printValue(label, numbers.Sprintf("%d", count))
}

func printValue(label, value string) {
	dotsLen := lineWidth - 4 - runewidth.StringWidth(label) - runewidth.StringWidth(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// progress redraws a single status line as steps complete.
type progress struct {
	w     io.Writer
	total uint64
	last  int
	drawn bool
}

const barWidth = 30

func newProgress(w io.Writer, total uint64) *progress {
	return &progress{w: w, total: total, last: -1}
}

func (p *progress) update(step uint64, particles int) {
	if p.total == 0 {
		return
	}
	pct := int(step * 100 / p.total)
	if pct == p.last && step != p.total {
		return
	}
	p.last = pct
	p.drawn = true
	filled := pct * barWidth / 100
	fmt.Fprintf(p.w, "\r  \033[36m%s\033[90m%s\033[0m %3d%%  %s",
		strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), pct,
		numbers.Sprintf("step %d/%d · %d particles", step, p.total, particles))
}

func (p *progress) finish() {
	if p.drawn {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w)
	}
}
