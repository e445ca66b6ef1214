package main

import (
	"fmt"
)

// ANSI color helpers
const (
	blue  = "\033[38;2;76;142;218m"
	gray  = "\033[38;5;242m"
	white = "\033[1;37m"
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"
)

func main() {
	info1 := white + "ADK Chat " + gray + "v0.1.0" + reset
	info2 := gray + "localhost:8000 · data_analyst" + reset

	fmt.Println()
	fmt.Println(bold + "═══ Pick a chart logo ═══" + reset)

	// ── Option A: Bar chart ──
	fmt.Println()
	fmt.Println(dim + "Option A — Bar chart" + reset)
	fmt.Println()
	fmt.Printf("   %s│%s   %s▄█%s      %s\n", gray, reset, blue, reset, info1)
	fmt.Printf("   %s│%s %s▄███ ▄%s    %s\n", gray, reset, blue, reset, info2)
	fmt.Printf("   %s└──────%s\n", gray, reset)

	// ── Option B: Rising line ──
	fmt.Println()
	fmt.Println(dim + "Option B — Rising line" + reset)
	fmt.Println()
	fmt.Printf("   %s│%s    %s●%s      %s\n", gray, reset, blue, reset, info1)
	fmt.Printf("   %s│%s %s●─●%s       %s\n", gray, reset, blue, reset, info2)
	fmt.Printf("   %s└──────%s\n", gray, reset)

	// ── Option C: Speech bubble + bars ──
	fmt.Println()
	fmt.Println(dim + "Option C — Chat + bars" + reset)
	fmt.Println()
	fmt.Printf("   %s▛▀▀▀▀▜%s     %s\n", gray, reset, info1)
	fmt.Printf("   %s▌%s%s▂▄█%s%s ▐%s     %s\n", gray, reset, blue, reset, gray, reset, info2)
	fmt.Printf("   %s▙▄▞▄▄▟%s\n", gray, reset)

	fmt.Println()
	fmt.Println(dim + "Which one? (A/B/C)" + reset)
	fmt.Println()
}
