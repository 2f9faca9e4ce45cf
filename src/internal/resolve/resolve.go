package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bibdoi/src/internal/dates"
	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/httpx"
	"bibdoi/src/internal/names"
	"bibdoi/src/internal/sanitize"
	"bibdoi/src/internal/schema"
)

// CSLAccept asks resolvers for CSL-JSON through content negotiation.
const CSLAccept = "application/vnd.citationstyles.csl+json"

var (
	client    httpx.Doer = httpx.NewRetryingClient(10*time.Second, 3)
	userAgent            = httpx.DefaultUA
)

// SetHTTPClient allows tests to inject a fake HTTP client.
func SetHTTPClient(c httpx.Doer) { client = c }

// SetUserAgent overrides the User-Agent sent to the resolver.
func SetUserAgent(ua string) { userAgent = ua }

// FetchArticle fetches CSL-JSON metadata for d from the resolver and maps it
// to a validated article entry whose URL is the DOI's ASCII URI.
func FetchArticle(ctx context.Context, d doi.DOI) (schema.Entry, error) {
	if d.IsZero() {
		return schema.Entry{}, fmt.Errorf("resolve: %w", doi.ErrEmptyInput)
	}
	u := d.ASCIIURI()
	log := zerolog.Ctx(ctx).With().Str("doi", d.String()).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return schema.Entry{}, err
	}
	req.Header.Set("Accept", CSLAccept)
	httpx.SetUA(req, userAgent)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return schema.Entry{}, fmt.Errorf("resolve %s: %w", d, err)
	}
	defer resp.Body.Close()
	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("resolver response")
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return schema.Entry{}, fmt.Errorf("resolve %s: http %d: %s", d, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var csl CSL
	if err := json.NewDecoder(resp.Body).Decode(&csl); err != nil {
		return schema.Entry{}, fmt.Errorf("resolve %s: decode csl: %w", d, err)
	}

	e := mapCSLToEntry(csl)
	// The resolver may answer with a different case or a redirect target;
	// keep what it reports only when it names the same DOI.
	if got, ok := doi.Parse(e.APA7.DOI); !ok || !got.Equal(d) {
		if e.APA7.DOI != "" {
			log.Warn().Str("reported", e.APA7.DOI).Msg("resolver reported a different doi")
		}
		e.APA7.DOI = d.String()
	}
	sanitize.CleanEntry(&e, nil)
	e.APA7.URL = u
	e.APA7.Accessed = dates.NowISO()
	if e.ID = schema.Slugify(e.APA7.Title, e.APA7.Year); e.ID == "" {
		e.ID = schema.NewID()
	}
	if len(e.Annotation.Keywords) == 0 {
		e.Annotation.Keywords = []string{"article"}
	}
	if e.Annotation.Summary == "" {
		e.Annotation.Summary = summary(e)
	}
	if err := e.Validate(); err != nil {
		return schema.Entry{}, err
	}
	return e, nil
}

func summary(e schema.Entry) string {
	j := e.APA7.Journal
	if j == "" {
		j = e.APA7.ContainerTitle
	}
	if j == "" {
		return fmt.Sprintf("Bibliographic record for %s via DOI metadata.", e.APA7.Title)
	}
	return fmt.Sprintf("Bibliographic record for %s in %s via DOI metadata.", e.APA7.Title, j)
}

// CSL is a partial model of the citationstyles JSON.
type CSL struct {
	Title          any         `json:"title"`
	Author         []CSLAuthor `json:"author"`
	ContainerTitle any         `json:"container-title"`
	Issued         CSLIssued   `json:"issued"`
	Volume         any         `json:"volume"`
	Issue          any         `json:"issue"`
	Page           string      `json:"page"`
	DOI            string      `json:"DOI"`
	Publisher      string      `json:"publisher"`
	Type           string      `json:"type"`
}

type CSLAuthor struct {
	Given   string `json:"given"`
	Family  string `json:"family"`
	Literal string `json:"literal"`
}

type CSLIssued struct {
	DateParts [][]int `json:"date-parts"`
}

func mapCSLToEntry(c CSL) schema.Entry {
	var e schema.Entry
	e.Type = entryType(c.Type)
	e.APA7.Title = toString(c.Title)
	e.APA7.ContainerTitle = toString(c.ContainerTitle)
	if e.Type == "article" {
		e.APA7.Journal = e.APA7.ContainerTitle
	}
	if len(c.Issued.DateParts) > 0 {
		if y, date := dates.FromParts(c.Issued.DateParts[0]); y > 0 {
			e.APA7.Year = &y
			e.APA7.Date = date
		}
	}
	e.APA7.Volume = toString(c.Volume)
	e.APA7.Issue = toString(c.Issue)
	e.APA7.Pages = c.Page
	e.APA7.DOI = strings.TrimSpace(c.DOI)
	e.APA7.Publisher = c.Publisher
	for _, a := range c.Author {
		switch {
		case strings.TrimSpace(a.Family) != "":
			e.APA7.Authors = append(e.APA7.Authors, schema.Author{Family: a.Family, Given: names.Initials(a.Given)})
		case strings.TrimSpace(a.Literal) != "":
			e.APA7.Authors = append(e.APA7.Authors, schema.Author{Family: a.Literal})
		}
	}
	return e
}

// entryType maps CSL item types onto entry types.
func entryType(csl string) string {
	switch csl {
	case "book", "chapter", "monograph", "edited-book":
		return "book"
	case "dataset":
		return "dataset"
	case "report":
		return "report"
	case "software":
		return "software"
	default:
		return "article"
	}
}

// toString coerces a string, a number or the first element of an array to
// a string.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case []any:
		if len(t) > 0 {
			return toString(t[0])
		}
	}
	return ""
}
