package terminal

import (
	"fmt"
	"time"
)

// Phase is the terminal's boot state. Only PhaseReady accepts input.
type Phase int

const (
	PhaseBooting Phase = iota
	PhaseWelcome
	PhaseReady
)

var phaseNames = [...]string{"booting", "welcome", "ready"}

// String returns a string representation of the phase.
func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// MarshalText encodes the phase as its name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("terminal: unknown phase %q", b)
}

// BootStep is one line of the boot sequence, shown Delay after boot starts.
type BootStep struct {
	Text  string        `json:"text"`
	Delay time.Duration `json:"delay"`
	Done  bool          `json:"done"`
}

// BootSequence lists the boot lines in display order.
var BootSequence = []BootStep{
	{Text: "Establishing connection", Delay: 0},
	{Text: "Connection established", Delay: 800 * time.Millisecond, Done: true},
	{Text: "Loading filesystem", Delay: 1200 * time.Millisecond},
	{Text: "Filesystem loaded", Delay: 2400 * time.Millisecond, Done: true},
	{Text: "Initializing terminal", Delay: 3000 * time.Millisecond},
	{Text: "Terminal ready", Delay: 3600 * time.Millisecond, Done: true},
}

const (
	// BootDuration is how long the boot sequence runs before the welcome.
	BootDuration = 4600 * time.Millisecond
	// FadeDelay separates the last boot line from the welcome screen.
	FadeDelay = 500 * time.Millisecond
)

// WelcomeLines is the text of the welcome screen.
var WelcomeLines = []string{
	`                _         _           _    `,
	`__      _____ | |__   __| | ___  ___| | __`,
	`\ \ /\ / / _ \| '_ \ / _' |/ _ \/ __| |/ /`,
	` \ V  V /  __/| |_) | (_| |  __/\__ \   < `,
	`  \_/\_/ \___||_.__/ \__,_|\___||___/_|\_\`,
	"",
	"Type `help` to see available commands.",
}
