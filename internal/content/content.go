// Package content holds the literal paper presented by neuralx.
//
// The paper, its chart series and the dashboard cards are compiled into the
// binary as an embedded YAML document and decoded once on first use. Nothing
// in this package performs I/O beyond reading that embedded document.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// AbstractID is the id of the abstract block. It is not one of the paper's
// numbered sections but takes part in reader navigation like one.
const AbstractID = "abstract"

// ErrUnknownSection is returned when a section id is not part of the paper.
var ErrUnknownSection = errors.New("unknown section")

//go:embed paper.yaml
var paperYAML []byte

// Stats are the headline numbers shown on the landing page.
type Stats struct {
	Citations     int    `yaml:"citations" json:"citations"`
	DatasetPoints string `yaml:"dataset_points" json:"dataset_points"`
	Accuracy      string `yaml:"accuracy" json:"accuracy"`
}

// Figure is an inline diagram attached to a section.
type Figure struct {
	Label   string   `yaml:"label" json:"label"`
	Caption string   `yaml:"caption" json:"caption"`
	Stages  []string `yaml:"stages" json:"stages"`
}

// Section is one titled block of the paper body. Body is markdown.
type Section struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Body   string  `yaml:"body" json:"body"`
	Figure *Figure `yaml:"figure,omitempty" json:"figure,omitempty"`
}

// Reference is a bibliography entry.
type Reference struct {
	Authors string `yaml:"authors" json:"authors"`
	Title   string `yaml:"title" json:"title"`
	Venue   string `yaml:"venue" json:"venue"`
	Year    int    `yaml:"year" json:"year"`
}

// String formats the reference the way the reader lists it.
func (r Reference) String() string {
	return fmt.Sprintf("%s, %q, %s, %d.", r.Authors, r.Title, r.Venue, r.Year)
}

// Footer is the landing page footer.
type Footer struct {
	Copyright string   `yaml:"copyright" json:"copyright"`
	Links     []string `yaml:"links" json:"links"`
}

// GenerationPoint is one sample of the search-progress series.
type GenerationPoint struct {
	Name     string  `yaml:"name" json:"name"`
	Accuracy float64 `yaml:"accuracy" json:"accuracy"`
	Latency  float64 `yaml:"latency" json:"latency"`
}

// ScatterPoint is one architecture projected onto the first two principal
// components; Z drives the marker size.
type ScatterPoint struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// SummaryCard is a dashboard statistic card.
type SummaryCard struct {
	Title string `yaml:"title" json:"title"`
	Value string `yaml:"value" json:"value"`
	Unit  string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Note  string `yaml:"note" json:"note"`
}

// Paper is the complete literal record presented by the application.
type Paper struct {
	Title           string            `yaml:"title" json:"title"`
	Subtitle        string            `yaml:"subtitle" json:"subtitle"`
	Project         string            `yaml:"project" json:"project"`
	Authors         []string          `yaml:"authors" json:"authors"`
	Affiliation     string            `yaml:"affiliation" json:"affiliation"`
	PublicationDate string            `yaml:"publication_date" json:"publication_date"`
	Year            int               `yaml:"year" json:"year"`
	Journal         string            `yaml:"journal" json:"journal"`
	Stats           Stats             `yaml:"stats" json:"stats"`
	Tags            []string          `yaml:"tags" json:"tags"`
	Abstract        string            `yaml:"abstract" json:"abstract"`
	Sections        []Section         `yaml:"sections" json:"sections"`
	KeyFindings     []string          `yaml:"key_findings" json:"key_findings"`
	References      []Reference       `yaml:"references" json:"references"`
	RelatedPaper    string            `yaml:"related_paper" json:"related_paper"`
	Footer          Footer            `yaml:"footer" json:"footer"`
	Generations     []GenerationPoint `yaml:"generations" json:"generations"`
	Scatter         []ScatterPoint    `yaml:"scatter" json:"scatter"`
	SummaryCards    []SummaryCard     `yaml:"summary_cards" json:"summary_cards"`
}

var (
	loadOnce sync.Once
	loaded   *Paper
	loadErr  error
)

// Load decodes the embedded paper. The result is shared; callers must not
// modify it.
func Load() (*Paper, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(paperYAML)
	})
	return loaded, loadErr
}

// MustLoad is Load for callers that treat a broken embedded document as a
// programming error.
func MustLoad() *Paper {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse decodes and validates a paper document.
func Parse(data []byte) (*Paper, error) {
	var p Paper
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing paper: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i := range p.Sections {
		p.Sections[i].Body = strings.TrimSpace(p.Sections[i].Body)
	}
	return &p, nil
}

// Validate checks the structural invariants the views rely on.
func (p *Paper) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("paper: title is required")
	}
	if len(p.Sections) == 0 {
		return errors.New("paper: at least one section is required")
	}
	seen := map[string]bool{AbstractID: true}
	for i, s := range p.Sections {
		if s.ID == "" {
			return fmt.Errorf("paper: section %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("paper: duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// SectionIDs returns the navigable ids in document order, starting with the
// abstract.
func (p *Paper) SectionIDs() []string {
	ids := make([]string, 0, len(p.Sections)+1)
	ids = append(ids, AbstractID)
	for _, s := range p.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

// Section returns the section with the given id.
func (p *Paper) Section(id string) (Section, error) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
}

// NavTitle is the sidebar label for a navigable id.
func (p *Paper) NavTitle(id string) string {
	if id == AbstractID {
		return "Resumen"
	}
	if s, err := p.Section(id); err == nil {
		return s.Title
	}
	return id
}

// Initials returns the uppercase initials of an author name, skipping
// honorifics such as "Dra." and "Prof.".
func Initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		r := []rune(f)
		if strings.HasSuffix(f, ".") && len(r) > 2 {
			continue
		}
		out = append(out, []rune(strings.ToUpper(string(r[0])))...)
		if len(out) >= 2 {
			break
		}
	}
	return string(out)
}
