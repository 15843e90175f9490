// Package logger provides namespaced debug loggers that are silent unless
// enabled through the DEBUG environment variable.
//
// DEBUG accepts a comma separated list of namespace patterns. A pattern may
// end in "*" to match a namespace prefix, and a leading "-" excludes the
// namespaces it matches:
//
//	DEBUG=*                       all loggers
//	DEBUG=workflow:*              every logger in the workflow namespace
//	DEBUG=workflow:*,cli:*        several namespaces
//	DEBUG=*,-workflow:shell       everything except one logger
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Logger writes debug output for a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	color     string

	mu   sync.Mutex
	last time.Time
}

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stderr
)

// palette used for namespace prefixes when stderr is a terminal
var palette = []string{"36", "32", "33", "35", "34", "31"}

// New creates a logger for namespace. Whether it is enabled is decided once,
// from the DEBUG value at creation time.
func New(namespace string) *Logger {
	l := &Logger{
		namespace: namespace,
		enabled:   isEnabled(namespace, os.Getenv("DEBUG")),
	}
	if l.enabled && isTerminal() {
		l.color = palette[hashNamespace(namespace)%len(palette)]
	}
	return l
}

// Enabled reports whether output from this logger is written.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf formats like fmt.Printf and writes one line.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print concatenates its arguments like fmt.Sprint and writes one line.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(msg string) {
	l.mu.Lock()
	now := time.Now()
	var delta time.Duration
	if !l.last.IsZero() {
		delta = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	prefix := l.namespace
	if l.color != "" {
		prefix = "\x1b[" + l.color + "m" + prefix + "\x1b[0m"
	}

	outputMu.Lock()
	defer outputMu.Unlock()
	fmt.Fprintf(output, "%s %s +%s\n", prefix, msg, formatDelta(delta))
}

// SetOutput redirects all loggers. It returns the previous writer so tests
// can restore it.
func SetOutput(w io.Writer) io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	prev := output
	output = w
	return prev
}

func formatDelta(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(time.Millisecond).String()
	}
}

// isEnabled evaluates the DEBUG patterns for namespace. Exclusions win over
// inclusions regardless of order.
func isEnabled(namespace, debug string) bool {
	if debug == "" {
		return false
	}
	enabled := false
	for _, pattern := range strings.Split(debug, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, "-") {
			if matchPattern(pattern[1:], namespace) {
				return false
			}
			continue
		}
		if matchPattern(pattern, namespace) {
			enabled = true
		}
	}
	return enabled
}

func matchPattern(pattern, namespace string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(namespace, prefix)
	}
	return pattern == namespace
}

func hashNamespace(namespace string) int {
	h := 0
	for _, c := range namespace {
		h = (h*31 + int(c)) & 0x7fffffff
	}
	return h
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
