package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/catalystcommunity/livedns/internal/livedns"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by ValidColorMode
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// recordNameWidth is the padded width of the record name column
const recordNameWidth = 20

// Printer writes coloured, human-readable lines
type Printer struct {
	w      io.Writer
	header *color.Color
	blue   *color.Color
	ok     *color.Color
	warn   *color.Color
	fail   *color.Color
	minor  *color.Color
	bold   *color.Color
}

// New creates a printer writing to w; escape codes are emitted only when enabled
func New(w io.Writer, enabled bool) *Printer {
	p := &Printer{
		w:      w,
		header: color.New(color.FgHiMagenta),
		blue:   color.New(color.FgHiBlue),
		ok:     color.New(color.FgHiGreen),
		warn:   color.New(color.FgHiYellow),
		fail:   color.New(color.FgHiRed),
		minor:  color.New(color.FgWhite),
		bold:   color.New(color.Bold),
	}
	for _, c := range p.colors() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// ColorEnabled decides whether to colour output for the given mode and writer
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ValidColorMode reports whether mode is auto, always or never
func ValidColorMode(mode string) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

func (p *Printer) colors() []*color.Color {
	return []*color.Color{p.header, p.blue, p.ok, p.warn, p.fail, p.minor, p.bold}
}

// Printf writes a formatted string
func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes its operands followed by a newline
func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

// Header colours zone headers
func (p *Printer) Header(s string) string { return p.header.Sprint(s) }

// Blue colours summary lines
func (p *Printer) Blue(s string) string { return p.blue.Sprint(s) }

// OK colours successful steps
func (p *Printer) OK(s string) string { return p.ok.Sprint(s) }

// Warn colours skipped work
func (p *Printer) Warn(s string) string { return p.warn.Sprint(s) }

// Fail colours errors and aborted steps
func (p *Printer) Fail(s string) string { return p.fail.Sprint(s) }

// Minor colours secondary text such as labels and TTLs
func (p *Printer) Minor(s string) string { return p.minor.Sprint(s) }

// Bold emphasises names
func (p *Printer) Bold(s string) string { return p.bold.Sprint(s) }

// Record prints one line per value of a record:
// type, TTL, name padded to 20 columns, value
func (p *Printer) Record(r livedns.Record) {
	for _, value := range r.Values {
		fmt.Fprintf(p.w, " %s\t%s\t%-*s\t%s\n",
			r.Type, p.Minor(strconv.Itoa(r.TTL)), recordNameWidth, r.Name, value)
	}
}
