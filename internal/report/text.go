package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pfrederiksen/palmares/internal/award"
	"github.com/pfrederiksen/palmares/internal/participant"
)

const (
	// EmptySlot is printed for a slot nobody qualified for.
	EmptySlot = "—"
	// FormFeed separates pages.
	FormFeed = "\f"

	unknownClub = "?"
)

// Options control text rendering
type Options struct {
	PageLines int
	Width     int
	Language  language.Tag
}

// DefaultOptions returns French A4-ish defaults.
func DefaultOptions() Options {
	return Options{PageLines: 45, Width: 80, Language: language.French}
}

// Renderer renders reports as paginated text
type Renderer struct {
	opts    Options
	printer *message.Printer
}

// NewRenderer creates a Renderer, using the defaults for unset page sizes.
func NewRenderer(opts Options) *Renderer {
	if opts.PageLines <= 0 {
		opts.PageLines = DefaultOptions().PageLines
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	return &Renderer{
		opts:    opts,
		printer: message.NewPrinter(opts.Language),
	}
}

func (r *Renderer) center(s string) string {
	return strings.TrimRight(lipgloss.PlaceHorizontal(r.opts.Width, lipgloss.Center, s), " ")
}

func (r *Renderer) upper(s string) string {
	return cases.Upper(r.opts.Language).String(s)
}

// Lines lays out the report without pagination.
func (r *Renderer) Lines(rep *Report) []string {
	var lines []string

	for _, s := range rep.Sources {
		if s.Title != "" {
			lines = append(lines, r.center(s.Title))
		}
		if s.URL != "" {
			lines = append(lines, r.center(s.URL))
		}
	}
	if len(rep.Sources) > 0 {
		lines = append(lines, "")
	}

	lines = append(lines, r.center(rep.Title), "")

	for _, group := range rep.Tournaments {
		if group.TournamentID != "" {
			heading := group.TournamentID
			if s, ok := rep.source(group.TournamentID); ok && s.Title != "" {
				heading = s.Title
			}
			lines = append(lines, r.center("== "+heading+" =="), "")
		}

		for _, blk := range group.Blocks {
			lines = append(lines, r.center(r.upper(blk.Title)))
			for _, slot := range blk.Slots {
				lines = append(lines, r.SlotLine(slot))
			}
			lines = append(lines, "")
		}
	}

	return lines
}

// SlotLine formats one slot as "Label : Name - Club - (Clt 3, 4,5 pts)".
// A slot nobody qualified for prints EmptySlot after the label.
func (r *Renderer) SlotLine(a award.Assignment) string {
	w := a.Winner
	if w == nil {
		return fmt.Sprintf("%s : %s", a.SlotLabel, EmptySlot)
	}

	club := w.Club
	if club == "" {
		club = unknownClub
	}
	return fmt.Sprintf("%s : %s - %s - (Clt %s, %s pts)",
		a.SlotLabel, w.Name, club, r.rank(w.Rank), r.points(w.Points))
}

func (r *Renderer) rank(n int) string {
	if n <= 0 {
		return "?"
	}
	return r.printer.Sprint(number.Decimal(n))
}

func (r *Renderer) points(m participant.Metric) string {
	if !m.Finite() {
		return "?"
	}
	return r.printer.Sprint(number.Decimal(m.Value))
}

// Paginate splits lines into pages of at most perPage lines. Blank lines at
// the top of a page are dropped.
func Paginate(lines []string, perPage int) [][]string {
	if perPage <= 0 {
		perPage = DefaultOptions().PageLines
	}

	var pages [][]string
	var cur []string
	for _, l := range lines {
		if len(cur) == 0 && l == "" {
			continue
		}
		cur = append(cur, l)
		if len(cur) == perPage {
			pages = append(pages, cur)
			cur = nil
		}
	}
	if len(cur) > 0 || len(pages) == 0 {
		pages = append(pages, cur)
	}
	return pages
}

// WriteText writes the paginated report. Each page ends with a centred
// "Page n/m" footer and pages are separated by a form feed.
func (r *Renderer) WriteText(w io.Writer, rep *Report) error {
	// one line per page is reserved for the footer
	pages := Paginate(r.Lines(rep), r.opts.PageLines-1)

	for i, page := range pages {
		if i > 0 {
			if _, err := fmt.Fprintln(w, FormFeed); err != nil {
				return err
			}
		}
		for _, l := range page {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
		footer := r.center(fmt.Sprintf("Page %d/%d", i+1, len(pages)))
		if _, err := fmt.Fprintln(w, footer); err != nil {
			return err
		}
	}
	return nil
}
