// Package printer renders reconstruction results as text, JSON or YAML.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	DefaultMaxTextBytes = 32
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs one line per segment or label.
	FormatText Format = "text"

	// FormatJSON outputs a JSON document.
	FormatJSON Format = "json"

	// FormatYAML outputs a YAML document.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("printer: unknown format %q (want text, json or yaml)", s)
	}
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json, yaml).
	// Default: FormatText
	Format Format

	// Color enables ANSI colors in text output. Colors are still suppressed
	// when the output is not a terminal.
	// Default: false
	Color bool

	// Charset names the 8-bit encoding used to display recovered bytes:
	// "" (raw, escaped), "cp437", "windows-1252" or "latin1".
	// Default: ""
	Charset string

	// MaxTextBytes limits how many recovered bytes are shown per item.
	// Longer text is truncated. Set to 0 for no limit.
	// Default: 32
	MaxTextBytes int

	// ShowText includes recovered bytes in the output.
	// Default: true
	ShowText bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		MaxTextBytes: DefaultMaxTextBytes,
		ShowText:     true,
	}
}

// Printer handles formatted output of segments, labels and reports.
type Printer struct {
	opts    Options
	writer  io.Writer
	decoder *encoding.Decoder
	palette palette
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p, _ := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintSegments(analysis.WithHeader())
func New(w io.Writer, opts Options) (*Printer, error) {
	p := &Printer{opts: opts, writer: w, palette: newPalette(opts.Color)}
	if opts.Charset != "" {
		cm, err := lookupCharset(opts.Charset)
		if err != nil {
			return nil, err
		}
		p.decoder = cm.NewDecoder()
	}
	return p, nil
}

func lookupCharset(name string) (*charmap.Charmap, error) {
	switch strings.ToLower(name) {
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("printer: unknown charset %q", name)
	}
}

// text renders recovered bytes as a quoted string, decoding them through the
// configured charset and truncating to MaxTextBytes.
func (p *Printer) text(b []byte) string {
	suffix := ""
	if limit := p.opts.MaxTextBytes; limit > 0 && len(b) > limit {
		suffix = fmt.Sprintf("...(%d bytes)", len(b))
		b = b[:limit]
	}
	s := string(b)
	if p.decoder != nil {
		if decoded, err := p.decoder.Bytes(b); err == nil {
			s = string(decoded)
		}
	}
	return fmt.Sprintf("%q%s", s, suffix)
}

// palette colors kinds in text output.
type palette struct {
	alloc, slack, freed, unknown, str, pointer, warn *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		alloc:   color.New(color.FgGreen),
		slack:   color.New(color.FgYellow),
		freed:   color.New(color.FgCyan),
		unknown: color.New(color.Faint),
		str:     color.New(color.FgGreen, color.Bold),
		pointer: color.New(color.FgMagenta),
		warn:    color.New(color.FgRed, color.Bold),
	}
	if !enabled {
		for _, c := range []*color.Color{p.alloc, p.slack, p.freed, p.unknown, p.str, p.pointer, p.warn} {
			c.DisableColor()
		}
	}
	return p
}
