// Package ui provides colorized console output for server startup and
// shutdown. Structured logs go to slog; this package only covers the
// human-facing terminal messages.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	infoBadge    = color.New(color.FgCyan, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	successText  = color.New(color.FgGreen, color.Bold)
	warningText  = color.New(color.FgYellow)
	accentText   = color.New(color.FgMagenta, color.Bold)
	mutedText    = color.New(color.FgHiBlack)

	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// PrintBanner displays the startup banner with the service name and version.
func PrintBanner(name, version string) {
	fmt.Println()
	infoBadge.Println("╔══════════════════════════════════════════╗")
	infoBadge.Print("║  ")
	accentText.Printf("%-33s", name)
	mutedText.Printf("%6s", "v"+version)
	infoBadge.Println(" ║")
	infoBadge.Println("╚══════════════════════════════════════════╝")
	fmt.Println()
}

// PrintStartupInfo prints the listen address, provider mode, and endpoints.
func PrintStartupInfo(host string, port int, provider string, useAI bool) {
	infoBadge.Print("[AI-SERVICE]")
	fmt.Print(" Listening on ")
	accentText.Printf("http://%s:%d\n", host, port)

	infoBadge.Print("[AI-SERVICE]")
	fmt.Print(" Provider: ")
	accentText.Print(provider)
	if useAI {
		successText.Println(" (live)")
	} else {
		warningText.Println(" (mock mode, no API key configured)")
	}

	fmt.Println()
	printEndpoints()
}

func printEndpoints() {
	mutedText.Println("  ┌───────────────────────────────────────────────────────┐")
	printEndpoint(methodPOST, "POST", "/generate/tests", "Generate test cases")
	printEndpoint(methodPOST, "POST", "/generate/bdd", "Generate BDD scenarios")
	printEndpoint(methodPOST, "POST", "/api/v1/ai/suggest-coverage", "Coverage suggestions")
	printEndpoint(methodGET, "GET ", "/health", "Health check")
	mutedText.Println("  └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func printEndpoint(badge *color.Color, method, path, desc string) {
	mutedText.Print("  │ ")
	badge.Printf(" %s ", method)
	fmt.Printf(" %-28s", path)
	mutedText.Printf("%-22s", desc)
	mutedText.Println("│")
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successText.Println("Server stopped.")
}
