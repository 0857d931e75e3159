// Package logging provides the console slog handler used by the CLI.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Options configures a Handler.
type Options struct {
	// Level is the minimum level written; defaults to Info
	Level slog.Leveler
	// Color forces colored output on or off; nil detects a terminal
	Color *bool
	// Time prefixes each line with the wall clock time
	Time bool
}

// Handler writes records as single console lines:
//
//	[15:04:05] ✓ routes generated routes=12 written=true
type Handler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	time   bool
	attrs  string
	prefix string

	debug, info, warn, errc, faint *color.Color
}

// NewHandler creates a Handler writing to w.
func NewHandler(w io.Writer, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	useColor := isTerminal(w)
	if opts.Color != nil {
		useColor = *opts.Color
	}

	h := &Handler{
		w:     w,
		mu:    &sync.Mutex{},
		level: level,
		time:  opts.Time,
		debug: color.New(color.FgCyan),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		errc:  color.New(color.FgRed),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{h.debug, h.info, h.warn, h.errc, h.faint} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

// New returns a logger writing to stderr. verbose enables debug records.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewHandler(os.Stderr, &Options{Level: level, Time: true}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if h.time {
		t := r.Time
		if t.IsZero() {
			t = time.Now()
		}
		b.WriteString(h.faint.Sprintf("[%s]", t.Format("15:04:05")))
		b.WriteByte(' ')
	} else {
		b.WriteString("  ")
	}

	b.WriteString(h.symbol(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) symbol(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.errc.Sprint("✗")
	case level >= slog.LevelWarn:
		return h.warn.Sprint("!")
	case level >= slog.LevelInfo:
		return h.info.Sprint("✓")
	default:
		return h.debug.Sprint("ℹ")
	}
}

func (h *Handler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, p, ga)
		}
		return
	}

	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteByte(' ')
	b.WriteString(h.faint.Sprint(prefix + a.Key + "="))
	b.WriteString(val)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		h.appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs = h.attrs + b.String()
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}
