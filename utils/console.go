// Package utils prints the colored console lines of the comparison tools.
package utils

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Console writes `(source): message` lines where the source is colored by
// severity.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	info    *color.Color
	success *color.Color
	warn    *color.Color
	err     *color.Color
	title   *color.Color
}

// NewConsole creates a console on w. Colors are enabled only if enabled is
// true.
func NewConsole(w io.Writer, enabled bool) *Console {
	c := &Console{
		out:     w,
		info:    color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed),
		title:   color.New(color.FgBlue, color.Bold),
	}

	for _, col := range []*color.Color{c.info, c.success, c.warn, c.err, c.title} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

// Stdout returns a console on standard output, colored if it is a terminal.
func Stdout() *Console {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return NewConsole(colorable.NewColorableStdout(), tty)
}

var (
	stdOnce sync.Once
	std     *Console
)

// Std returns the process wide stdout console.
func Std() *Console {
	stdOnce.Do(func() {
		std = Stdout()
	})
	return std
}

func (c *Console) line(col *color.Color, source, format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "(%s): %s\n", col.Sprint(source), fmt.Sprintf(format, args...))
}

// Info prints an informational line.
func (c *Console) Info(source, format string, args ...interface{}) {
	c.line(c.info, source, format, args...)
}

// Success prints a line about a finished step.
func (c *Console) Success(source, format string, args ...interface{}) {
	c.line(c.success, source, format, args...)
}

// Warn prints a warning line.
func (c *Console) Warn(source, format string, args ...interface{}) {
	c.line(c.warn, source, format, args...)
}

// Error prints an error line.
func (c *Console) Error(source, format string, args ...interface{}) {
	c.line(c.err, source, format, args...)
}

// Title prints a bold headline, for example the target being analyzed.
func (c *Console) Title(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, c.title.Sprintf(format, args...))
}

// Writer exposes the underlying writer for tables.
func (c *Console) Writer() io.Writer {
	return c.out
}
