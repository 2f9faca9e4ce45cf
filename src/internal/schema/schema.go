package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"bibdoi/src/internal/dates"
	"bibdoi/src/internal/doi"
)

// Entry represents a single citation entry stored on disk as YAML.
type Entry struct {
	ID         string     `yaml:"id" json:"id"`
	Type       string     `yaml:"type" json:"type"`
	APA7       APA7       `yaml:"apa7" json:"apa7"`
	Annotation Annotation `yaml:"annotation" json:"annotation"`
}

// APA7 holds the bibliographic fields of an entry.
type APA7 struct {
	Authors        Authors `yaml:"authors" json:"authors"`
	Year           *int    `yaml:"year,omitempty" json:"year,omitempty"`
	Date           string  `yaml:"date,omitempty" json:"date,omitempty"`
	Title          string  `yaml:"title" json:"title"`
	ContainerTitle string  `yaml:"container_title,omitempty" json:"container_title,omitempty"`
	Publisher      string  `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Journal        string  `yaml:"journal,omitempty" json:"journal,omitempty"`
	Volume         string  `yaml:"volume,omitempty" json:"volume,omitempty"`
	Issue          string  `yaml:"issue,omitempty" json:"issue,omitempty"`
	Pages          string  `yaml:"pages,omitempty" json:"pages,omitempty"`
	DOI            string  `yaml:"doi,omitempty" json:"doi,omitempty"`
	URL            string  `yaml:"url,omitempty" json:"url,omitempty"`
	Accessed       string  `yaml:"accessed,omitempty" json:"accessed,omitempty"`
}

type Author struct {
	Family string `yaml:"family" json:"family"`
	Given  string `yaml:"given,omitempty" json:"given,omitempty"`
}

type Annotation struct {
	Summary  string   `yaml:"summary" json:"summary"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Authors unmarshals from a single name, a list of names, a single author
// mapping or a list of author mappings. Bare names land in Family.
type Authors []Author

func (a *Authors) UnmarshalYAML(value *yaml.Node) error {
	var nodes []*yaml.Node
	switch value.Kind {
	case yaml.SequenceNode:
		nodes = value.Content
	case yaml.ScalarNode, yaml.MappingNode:
		nodes = []*yaml.Node{value}
	}
	var out Authors
	for _, n := range nodes {
		var au Author
		switch n.Kind {
		case yaml.ScalarNode:
			if n.Tag == "!!null" {
				continue
			}
			au.Family = strings.TrimSpace(n.Value)
		case yaml.MappingNode:
			if err := n.Decode(&au); err != nil {
				return err
			}
		default:
			continue
		}
		if strings.TrimSpace(au.Family) == "" && strings.TrimSpace(au.Given) == "" {
			continue
		}
		out = append(out, au)
	}
	*a = out
	return nil
}

// Types lists the accepted entry types.
var Types = []string{"article", "book", "dataset", "report", "software", "website"}

// Validate applies the storage rules. A DOI, when present, must already be
// in canonical form.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("id is required")
	}
	if !validType(e.Type) {
		return fmt.Errorf("invalid type: %s", e.Type)
	}
	if strings.TrimSpace(e.APA7.Title) == "" {
		return errors.New("apa7.title is required")
	}
	if strings.TrimSpace(e.Annotation.Summary) == "" {
		return errors.New("annotation.summary is required")
	}
	if len(e.Annotation.Keywords) == 0 {
		return errors.New("annotation.keywords must have at least one keyword")
	}
	if strings.TrimSpace(e.APA7.URL) != "" && strings.TrimSpace(e.APA7.Accessed) == "" {
		return errors.New("apa7.accessed is required when apa7.url is present")
	}
	if raw := e.APA7.DOI; raw != "" {
		d, err := doi.New(raw)
		if err != nil {
			return fmt.Errorf("apa7.doi: %w", err)
		}
		if d.String() != raw {
			return fmt.Errorf("apa7.doi: %q is not canonical, want %q", raw, d.String())
		}
	}
	return nil
}

// ParsedDOI returns the entry DOI, or the zero DOI when absent or invalid.
func (e Entry) ParsedDOI() doi.DOI {
	d, _ := doi.Coerce(e.APA7.DOI)
	return d
}

// EnsureAccessedIfURL stamps today's date when a URL is present without one.
func EnsureAccessedIfURL(e *Entry) {
	if strings.TrimSpace(e.APA7.URL) != "" && strings.TrimSpace(e.APA7.Accessed) == "" {
		e.APA7.Accessed = dates.NowISO()
	}
}

// NewID returns a random UUIDv4 id for entries without a usable title.
func NewID() string { return uuid.NewString() }

func validType(t string) bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify generates an id-friendly slug from title and optional year.
func Slugify(title string, year *int) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.Trim(nonAlnum.ReplaceAllString(t, "-"), "-")
	if year != nil {
		if t == "" {
			return fmt.Sprintf("%d", *year)
		}
		return fmt.Sprintf("%s-%d", t, *year)
	}
	return t
}
