// Package render prints search results for a terminal, grep style.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/dshills/semfind/internal/indexer"
	"github.com/dshills/semfind/pkg/types"
)

// Color modes accepted by UseColor
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ANSI escape sequences
const (
	ansiCyan  = "\033[36m"
	ansiGreen = "\033[32m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

// ErrInvalidColorMode is returned for an unknown --color value
var ErrInvalidColorMode = errors.New("color must be auto, always or never")

// UseColor decides whether to color output written to w under mode. In
// auto mode color is used only when w is a terminal.
func UseColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		fd := f.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidColorMode, mode)
	}
}

// Printer writes results to an output stream
type Printer struct {
	w       io.Writer
	color   bool
	context int

	// Lines of files already read for context, by path
	lines map[string][]string
}

// NewPrinter creates a printer. context is the number of lines shown
// before and after each match; 0 prints only the matching line.
func NewPrinter(w io.Writer, color bool, context int) *Printer {
	if context < 0 {
		context = 0
	}
	return &Printer{
		w:       w,
		color:   color,
		context: context,
		lines:   make(map[string][]string),
	}
}

// Print writes every result. With context, groups are separated by "--".
func (p *Printer) Print(results []types.Result) error {
	for i, r := range results {
		if p.context == 0 {
			if err := p.match(r.File, r.LineNum, r.Text, r.Score); err != nil {
				return err
			}
			continue
		}

		if err := p.withContext(r); err != nil {
			return err
		}
		if i < len(results)-1 {
			if _, err := fmt.Fprintln(p.w, "--"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Printer) withContext(r types.Result) error {
	lines, err := p.fileLines(r.File)
	if err != nil {
		return err
	}

	start := max(1, r.LineNum-p.context)
	end := min(len(lines), r.LineNum+p.context)
	for ln := start; ln <= end; ln++ {
		text := lines[ln-1]
		if ln == r.LineNum {
			err = p.match(r.File, ln, text, r.Score)
		} else {
			_, err = fmt.Fprintln(p.w, p.paint(ansiDim, fmt.Sprintf("%s:%d: %s", r.File, ln, text)))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) match(file string, line int, text string, score float64) error {
	_, err := fmt.Fprintf(p.w, "%s:%s: %s  %s\n",
		p.paint(ansiCyan, file),
		p.paint(ansiGreen, fmt.Sprint(line)),
		text,
		p.paint(ansiDim, fmt.Sprintf("(%.3f)", score)))
	return err
}

// fileLines reads each file at most once per printer
func (p *Printer) fileLines(path string) ([]string, error) {
	if lines, ok := p.lines[path]; ok {
		return lines, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewFileError("read", path, err)
	}
	lines := indexer.RawLines(content)
	p.lines[path] = lines
	return lines, nil
}

func (p *Printer) paint(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}
