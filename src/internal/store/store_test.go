package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bibdoi/src/internal/doi"
	"bibdoi/src/internal/schema"
)

func inTempRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	_ = os.Chdir(dir)
	SetRoot(".")
	return dir
}

func article(id, d string) schema.Entry {
	return schema.Entry{
		ID:         id,
		Type:       "article",
		APA7:       schema.APA7{Title: "Title " + id, DOI: d},
		Annotation: schema.Annotation{Summary: "s", Keywords: []string{"k"}},
	}
}

func TestWriteReadAndIndex(t *testing.T) {
	inTempRepo(t)

	e1 := article("a", "10.1006/jmbi.1998.2354")
	e2 := schema.Entry{ID: "b", Type: "book", APA7: schema.APA7{Title: "B"}, Annotation: schema.Annotation{Summary: "s2", Keywords: []string{"go"}}}

	p1, err := WriteEntry(e1)
	if err != nil {
		t.Fatalf("write1: %v", err)
	}
	if p1 != "data/citations/article/a.yaml" {
		t.Fatalf("path1: %s", p1)
	}
	if _, err := os.Stat(p1); err != nil {
		t.Fatalf("stat1: %v", err)
	}
	if _, err := WriteEntry(e2); err != nil {
		t.Fatalf("write2: %v", err)
	}
	if _, err := WriteEntry(e1); !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected ErrExist on overwrite, got %v", err)
	}

	list, err := ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 entries got %d", len(list))
	}

	out, err := BuildDOIIndex(list)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if out != DOIJSON {
		t.Fatalf("unexpected path: %s", out)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	var idx map[string]string
	if err := json.Unmarshal(b, &idx); err != nil {
		t.Fatalf("index json: %v", err)
	}
	if len(idx) != 1 || idx["data/citations/article/a.yaml"] != "10.1006/jmbi.1998.2354" {
		t.Fatalf("index content: %v", idx)
	}
}

func TestWriteEntryRejectsInvalidDOI(t *testing.T) {
	inTempRepo(t)
	if _, err := WriteEntry(article("x", "11.1006/nope")); !errors.Is(err, doi.ErrInvalidDirectoryIndicator) {
		t.Fatalf("expected DOI validation error, got %v", err)
	}
}

func TestEmptyDirs(t *testing.T) {
	inTempRepo(t)
	entries, err := ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries")
	}
	if _, err := BuildDOIIndex(entries); err != nil {
		t.Fatalf("index: %v", err)
	}
	if _, err := os.Stat(MetadataDir); err != nil {
		t.Fatalf("metadata dir: %v", err)
	}
}

func TestSetRoot(t *testing.T) {
	dir := t.TempDir()
	SetRoot(dir)
	t.Cleanup(func() { SetRoot("") })
	if Root() != dir {
		t.Fatalf("root: %s", Root())
	}
	rel, err := WriteEntry(article("r", "10/abcd"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
		t.Fatalf("stat under root: %v", err)
	}
	recs, err := Load()
	if err != nil || len(recs) != 1 || recs[0].Path != rel {
		t.Fatalf("load: %v %+v", err, recs)
	}
}

func TestLoadKeepsInvalidEntriesAndRewrite(t *testing.T) {
	inTempRepo(t)
	raw := "id: broken\ntype: article\napa7:\n  title: Broken\n  doi: 'https://dx.doi.org/10.1006/JMBI.1998.2354'\nannotation:\n  summary: s\n  keywords: [k]\n"
	if err := os.MkdirAll("data/citations/article", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("data/citations/article/broken.yaml", []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll(); err == nil {
		t.Fatalf("ReadAll should reject a non-canonical DOI")
	}
	recs, err := Load()
	if err != nil || len(recs) != 1 {
		t.Fatalf("load: %v %+v", err, recs)
	}
	if err := Rewrite(recs[0]); err == nil {
		t.Fatalf("Rewrite should validate")
	}
	if !NormalizeArticleDOI(&recs[0].Entry, nil) {
		t.Fatalf("expected normalization")
	}
	if err := Rewrite(recs[0]); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	list, err := ReadAll()
	if err != nil {
		t.Fatalf("readall after repair: %v", err)
	}
	if list[0].APA7.DOI != "10.1006/JMBI.1998.2354" || list[0].APA7.URL != "https://doi.org/10.1006/JMBI.1998.2354" {
		t.Fatalf("repaired entry: %+v", list[0].APA7)
	}
}

func TestDuplicateDOIs(t *testing.T) {
	entries := []schema.Entry{
		article("a", "10.1000/ABC"),
		article("b", "10.1000/abc"),
		article("c", "10.1000/other"),
		article("d", ""),
	}
	dups := DuplicateDOIs(entries)
	if len(dups) != 1 {
		t.Fatalf("dups: %v", dups)
	}
	paths := dups["10.1000/abc"]
	if len(paths) != 2 || paths[0] != "data/citations/article/a.yaml" || paths[1] != "data/citations/article/b.yaml" {
		t.Fatalf("dup paths: %v", paths)
	}
}

func TestDOIWithInnerSpaceKeepsItsIdentity(t *testing.T) {
	inTempRepo(t)
	spaced := article("a", "10.1006/rwei.1999 .0001")
	joined := article("b", "10.1006/rwei.1999.0001")
	entries := []schema.Entry{spaced, joined}

	if got := spaced.ParsedDOI().String(); got != "10.1006/rwei.1999 .0001" {
		t.Fatalf("ParsedDOI: %q", got)
	}
	if dups := DuplicateDOIs(entries); len(dups) != 0 {
		t.Fatalf("distinct DOIs reported as duplicates: %v", dups)
	}
	d, _ := doi.New("https://doi.org/10.1006/rwei.1999%20.0001")
	if e, ok := FindByDOI(entries, d); !ok || e.ID != "a" {
		t.Fatalf("FindByDOI: %v %+v", ok, e)
	}
	out, err := BuildDOIIndex(entries)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	var idx map[string]string
	if err := json.Unmarshal(b, &idx); err != nil {
		t.Fatalf("index json: %v", err)
	}
	if idx["data/citations/article/a.yaml"] != "10.1006/rwei.1999 .0001" || len(idx) != 2 {
		t.Fatalf("index: %v", idx)
	}
	if err := spaced.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFindByDOI(t *testing.T) {
	entries := []schema.Entry{article("a", "10.1000/ABC"), article("b", "")}
	d, _ := doi.New("10.1000/abc")
	if e, ok := FindByDOI(entries, d); !ok || e.ID != "a" {
		t.Fatalf("FindByDOI: %v %+v", ok, e)
	}
	if _, ok := FindByDOI(entries, doi.DOI{}); ok {
		t.Fatalf("zero DOI must not match")
	}
}

func TestNormalizeArticleDOI(t *testing.T) {
	cases := []struct {
		name    string
		in      schema.APA7
		typ     string
		changed bool
		doi     string
		url     string
	}{
		{"from doi field", schema.APA7{DOI: "doi:10.1000/182"}, "article", true, "10.1000/182", "https://doi.org/10.1000/182"},
		{"from url", schema.APA7{URL: "https://onlinelibrary.wiley.com/doi/10.1002/andp.19053220607"}, "article", true, "10.1002/andp.19053220607", "https://doi.org/10.1002/andp.19053220607"},
		{"from text", schema.APA7{DOI: "available at doi.org/10/gf4gqc online"}, "article", true, "10/gf4gqc", "https://doi.org/10/gf4gqc"},
		{"already canonical", schema.APA7{DOI: "10.1000/182", URL: "https://doi.org/10.1000/182", Accessed: "2025-01-01"}, "article", false, "10.1000/182", "https://doi.org/10.1000/182"},
		{"escaped uri", schema.APA7{DOI: "10.1000/a<b"}, "article", true, "10.1000/a<b", "https://doi.org/10.1000/a%3Cb"},
		{"inner space kept", schema.APA7{DOI: "10.1006/rwei.1999 .0001"}, "article", true, "10.1006/rwei.1999 .0001", "https://doi.org/10.1006/rwei.1999%20.0001"},
		{"literal percent", schema.APA7{DOI: "10.1000/a%41"}, "article", true, "10.1000/a%41", "https://doi.org/10.1000/a%2541"},
		{"stale unescaped percent url", schema.APA7{DOI: "10.1000/a%41", URL: "https://doi.org/10.1000/a%41", Accessed: "2025-01-01"}, "article", true, "10.1000/a%41", "https://doi.org/10.1000/a%2541"},
		{"not an article", schema.APA7{DOI: "doi:10.1000/182"}, "book", false, "doi:10.1000/182", ""},
		{"no doi anywhere", schema.APA7{URL: "https://example.com"}, "article", false, "", "https://example.com"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := schema.Entry{Type: c.typ, APA7: c.in}
			if got := NormalizeArticleDOI(&e, nil); got != c.changed {
				t.Fatalf("changed = %v, want %v", got, c.changed)
			}
			if e.APA7.DOI != c.doi || e.APA7.URL != c.url {
				t.Fatalf("got doi=%q url=%q", e.APA7.DOI, e.APA7.URL)
			}
			if c.changed && e.APA7.Accessed == "" {
				t.Fatalf("accessed not set")
			}
		})
	}
	if NormalizeArticleDOI(nil, nil) {
		t.Fatalf("nil entry")
	}
}
