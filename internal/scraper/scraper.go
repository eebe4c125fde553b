package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	UserAgent = "palmares-cli/1.0 (github.com/pfrederiksen/palmares)"
	Timeout   = 30 * time.Second

	// minCells is the number of cells of a complete standings row
	minCells = 12
)

// Row is one standings line as raw cell text
type Row struct {
	Place       string `json:"place"`
	Name        string `json:"name"`
	Rating      string `json:"rating"`
	Category    string `json:"category"`
	Federation  string `json:"federation"`
	League      string `json:"league"`
	Club        string `json:"club"`
	Points      string `json:"points"`
	Rounds      string `json:"rounds"`
	Buchholz    string `json:"buchholz"`
	Performance string `json:"performance"`
}

// Page is a parsed standings page
type Page struct {
	Title string
	URL   string
	Rows  []Row
}

// Scraper handles fetching and parsing standings pages
type Scraper struct {
	client    *http.Client
	userAgent string
}

// New creates a new Scraper instance
func New() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: UserAgent,
	}
}

// WithTimeout sets the HTTP client timeout.
func (s *Scraper) WithTimeout(d time.Duration) *Scraper {
	if d > 0 {
		s.client.Timeout = d
	}
	return s
}

// WithUserAgent overrides the User-Agent header.
func (s *Scraper) WithUserAgent(ua string) *Scraper {
	if ua != "" {
		s.userAgent = ua
	}
	return s
}

// FetchStandings fetches and parses the standings page at url
func (s *Scraper) FetchStandings(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	page, err := ParseStandings(resp.Body)
	if err != nil {
		return nil, err
	}
	page.URL = url
	return page, nil
}

// ParseStandings extracts the title and ranking rows from a standings page.
// Rows with fewer than 12 cells (headers, separators) are skipped.
func ParseStandings(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	page := &Page{
		Title: cellText(doc.Find("tr.papi_titre td").First()),
		Rows:  make([]Row, 0),
	}

	doc.Find("tr.papi_liste_f, tr.papi_liste_c").Each(func(i int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < minCells {
			return
		}
		page.Rows = append(page.Rows, mapRow(tds))
	})

	return page, nil
}

// mapRow maps the standings columns:
// 0 place, 1 icon, 2 name, 3 rating, 4 category, 5 federation, 6 league,
// 7 club, 8 points, 9 rounds, 10 Buchholz, 11 performance.
func mapRow(tds *goquery.Selection) Row {
	cell := func(i int) string { return cellText(tds.Eq(i)) }

	fede := cell(5)
	if src, ok := tds.Eq(5).Find("img").Attr("src"); ok && src != "" {
		fede = src
	}

	return Row{
		Place:       cell(0),
		Name:        strings.TrimPrefix(cell(2), "*"),
		Rating:      cell(3),
		Category:    cell(4),
		Federation:  fede,
		League:      cell(6),
		Club:        cell(7),
		Points:      cell(8),
		Rounds:      cell(9),
		Buchholz:    cell(10),
		Performance: cell(11),
	}
}

// cellText returns the trimmed text of a cell with non-breaking spaces
// replaced by plain spaces.
func cellText(sel *goquery.Selection) string {
	return strings.TrimSpace(strings.ReplaceAll(sel.Text(), "\u00a0", " "))
}
