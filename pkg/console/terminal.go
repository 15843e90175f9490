package console

import (
	"os"

	"golang.org/x/term"
)

// IsStdinTerminal reports whether stdin is an interactive terminal.
func IsStdinTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStderrTerminal reports whether stderr is an interactive terminal.
func IsStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// IsAccessibleMode reports whether prompts should use the plain,
// screen-reader friendly rendering.
func IsAccessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != "" ||
		os.Getenv("TERM") == "dumb" ||
		os.Getenv("NO_COLOR") != ""
}
