package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/schema"
)

const (
	CitationsDir = "data/citations"
	MetadataDir  = "data/metadata"
	DOIJSON      = "data/metadata/doi.json"
)

var root = "."

// SetRoot points the store at the repository rooted at dir. Paths returned
// by the store stay relative to that root.
func SetRoot(dir string) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	root = dir
}

// Root returns the current repository root.
func Root() string { return root }

func onDisk(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

// Record is an entry together with the repo-relative path it was read from.
type Record struct {
	Path  string
	Entry schema.Entry
}

// entryPath returns the repo-relative path to the YAML file for an entry id/type.
func entryPath(e schema.Entry) string {
	return filepath.ToSlash(filepath.Join(CitationsDir, dirForType(e.Type), e.ID+".yaml"))
}

// dirForType maps an entry type to its subdirectory under data/citations.
func dirForType(typ string) string {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "article", "dataset", "report", "software":
		return strings.ToLower(strings.TrimSpace(typ))
	case "book":
		return "books"
	case "website":
		return "site"
	default:
		return "citation"
	}
}

func writeJSON(rel string, v any) (string, error) {
	if err := os.MkdirAll(onDisk(MetadataDir), 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(onDisk(rel), append(b, '\n'), 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

func writeYAML(rel string, e schema.Entry) error {
	if err := os.MkdirAll(filepath.Dir(onDisk(rel)), 0o755); err != nil {
		return err
	}
	buf, err := yaml.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(onDisk(rel), buf, 0o644)
}

// WriteEntry validates and writes the entry YAML to data/citations/<segment>/<id>.yaml.
// It refuses to overwrite an existing file.
func WriteEntry(e schema.Entry) (string, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = schema.NewID()
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	rel := entryPath(e)
	if _, err := os.Stat(onDisk(rel)); err == nil {
		return "", fmt.Errorf("%s: %w", rel, fs.ErrExist)
	}
	if err := writeYAML(rel, e); err != nil {
		return "", err
	}
	return rel, nil
}

// Rewrite validates r.Entry and writes it back to r.Path.
func Rewrite(r Record) error {
	if err := r.Entry.Validate(); err != nil {
		return fmt.Errorf("%s: %w", r.Path, err)
	}
	return writeYAML(r.Path, r.Entry)
}

// Load returns every entry under data/citations without validating it, so
// broken entries can be repaired. Records are sorted by path.
func Load() ([]Record, error) {
	var out []Record
	dir := onDisk(CitationsDir)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var e schema.Entry
		if err := yaml.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("invalid YAML in %s: %w", rel, err)
		}
		out = append(out, Record{Path: rel, Entry: e})
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}

// ReadAll loads, validates, and returns all entries under data/citations.
func ReadAll() ([]schema.Entry, error) {
	recs, err := Load()
	if err != nil {
		return nil, err
	}
	entries := make([]schema.Entry, 0, len(recs))
	for _, r := range recs {
		if err := r.Entry.Validate(); err != nil {
			return nil, fmt.Errorf("invalid entry in %s: %w", r.Path, err)
		}
		entries = append(entries, r.Entry)
	}
	return entries, nil
}

// BuildDOIIndex writes data/metadata/doi.json mapping entry YAML path -> canonical DOI
// for entries with a recognizable DOI.
func BuildDOIIndex(entries []schema.Entry) (string, error) {
	index := map[string]string{}
	for _, e := range entries {
		if d := e.ParsedDOI(); !d.IsZero() {
			index[entryPath(e)] = d.String()
		}
	}
	return writeJSON(DOIJSON, index)
}

// DuplicateDOIs groups entry paths by DOI, ignoring case, and returns only
// the DOIs claimed by more than one entry.
func DuplicateDOIs(entries []schema.Entry) map[string][]string {
	groups := map[string][]string{}
	for _, e := range entries {
		if d := e.ParsedDOI(); !d.IsZero() {
			groups[d.Key()] = append(groups[d.Key()], entryPath(e))
		}
	}
	for k, paths := range groups {
		if len(paths) < 2 {
			delete(groups, k)
			continue
		}
		sort.Strings(paths)
	}
	return groups
}

// FindByDOI returns the first entry whose DOI equals d.
func FindByDOI(entries []schema.Entry, d doi.DOI) (schema.Entry, bool) {
	for _, e := range entries {
		if !d.IsZero() && e.ParsedDOI().Equal(d) {
			return e, true
		}
	}
	return schema.Entry{}, false
}

// NormalizeArticleDOI makes an article's DOI canonical and points its URL at
// the DOI's ASCII resolver URI. A missing DOI is recovered from the URL, then
// from free text in the DOI field. It reports whether e changed.
func NormalizeArticleDOI(e *schema.Entry, x *doi.Extractor) bool {
	if e == nil || strings.ToLower(strings.TrimSpace(e.Type)) != "article" {
		return false
	}
	if x == nil {
		x = doi.Default()
	}
	d, ok := x.Coerce(e.APA7.DOI)
	if !ok && strings.TrimSpace(e.APA7.DOI) == "" {
		d, ok = x.Coerce(e.APA7.URL)
	}
	if !ok {
		d, ok = x.FindInText(e.APA7.DOI)
	}
	if !ok {
		return false
	}
	changed := false
	if e.APA7.DOI != d.String() {
		e.APA7.DOI = d.String()
		changed = true
	}
	if u := d.ASCIIURI(); e.APA7.URL != u {
		e.APA7.URL = u
		schema.EnsureAccessedIfURL(e)
		changed = true
	}
	return changed
}
