// Package display is the local output surface for the badge: current
// text, protocol status, and the out-of-band pairing info. The real
// device renders these on an e-paper panel; on a host the Console
// implementation stands in.
package display

import "fmt"

// Display receives everything the device shows locally. The pairing
// password reaches the world only through ShowPairing; it must never
// appear on the BLE surface.
type Display interface {
	// ShowText renders the current displayed text.
	ShowText(text string)
	// ShowStatus renders a short status label.
	ShowStatus(label string)
	// ShowPairing renders the pairing password and QR-code URL.
	ShowPairing(password, url string)
}

// Console writes display output to stdout.
type Console struct{}

func (Console) ShowText(text string) {
	fmt.Printf("[text] %s\n", text)
}

func (Console) ShowStatus(label string) {
	fmt.Printf("[status] %s\n", label)
}

func (Console) ShowPairing(password, url string) {
	fmt.Printf("[pairing] password: %s  url: %s\n", password, url)
}

// Nop discards all output. Used in tests and headless runs.
type Nop struct{}

func (Nop) ShowText(string)            {}
func (Nop) ShowStatus(string)          {}
func (Nop) ShowPairing(string, string) {}

// Compile-time checks.
var (
	_ Display = Console{}
	_ Display = Nop{}
)
