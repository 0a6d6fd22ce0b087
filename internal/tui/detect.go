package tui

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// Mode is whether a person can answer prompts and selectors
type Mode int

const (
	ModeNonInteractive Mode = iota
	ModeInteractive
)

const (
	// NonInteractiveEnv set to "1" disables prompts
	NonInteractiveEnv = "RESOLVEKIT_NON_INTERACTIVE"
	// BridgeEnv is set by the script stubs for the binary they start
	BridgeEnv = "RESOLVEKIT_BRIDGE"
)

var bridged atomic.Bool

// SetBridged marks the process as serving the host bridge. Its stdin and
// stdout then carry protocol lines and stderr ends up in the Resolve console.
func SetBridged(on bool) {
	bridged.Store(on)
}

// Detection is a mode and what decided it
type Detection struct {
	Mode   Mode
	Reason string
}

// session is what detection reads
type session struct {
	getenv        func(string) string
	isTerminal    func(fd int) bool
	stdin, stdout int
}

func currentSession() session {
	return session{
		getenv:     os.Getenv,
		isTerminal: term.IsTerminal,
		stdin:      int(os.Stdin.Fd()),
		stdout:     int(os.Stdout.Fd()),
	}
}

func (s session) detect() Detection {
	off := func(reason string) Detection {
		return Detection{Mode: ModeNonInteractive, Reason: reason}
	}
	switch {
	case bridged.Load() || s.getenv(BridgeEnv) != "":
		return off("serving the Resolve bridge")
	case s.getenv(NonInteractiveEnv) == "1":
		return off(NonInteractiveEnv + " is set")
	case s.getenv("CI") != "":
		return off("CI is set")
	case s.getenv("NO_COLOR") != "":
		return off("NO_COLOR is set")
	case !s.isTerminal(s.stdin):
		return off("stdin is not a terminal")
	case !s.isTerminal(s.stdout):
		return off("stdout is not a terminal")
	}
	return Detection{Mode: ModeInteractive}
}

// Detect inspects the running process
func Detect() Detection {
	return currentSession().detect()
}

// DetectMode returns Detect().Mode
func DetectMode() Mode {
	return Detect().Mode
}

// IsInteractive reports whether prompts may be shown
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
