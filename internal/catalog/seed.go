package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// ErrInvalidSeed is returned when a seed document violates catalog rules.
var ErrInvalidSeed = errors.New("invalid catalog seed")

type seedFile struct {
	Groups   []seedGroup   `yaml:"groups"`
	ManPages []seedManPage `yaml:"man_pages,omitempty"`
}

type seedGroup struct {
	ID       int64         `yaml:"id"`
	Label    string        `yaml:"label"`
	Icon     string        `yaml:"icon,omitempty"`
	Commands []seedCommand `yaml:"commands"`
}

type seedCommand struct {
	Text   string   `yaml:"text"`
	Mans   []string `yaml:"mans,omitempty"`
	Output []int    `yaml:"output,omitempty"`
}

type seedManPage struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary,omitempty"`
	Body    string `yaml:"body,omitempty"`
}

// DefaultSeed returns the catalog bundled with the binary.
func DefaultSeed() (Catalog, error) {
	return ParseYAML(defaultSeed)
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	cat, err := ParseYAML(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return cat, nil
}

// ParseYAML decodes and validates a YAML catalog document.
func ParseYAML(data []byte) (Catalog, error) {
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, err
	}
	cat := Catalog{
		Groups:   make([]Group, 0, len(doc.Groups)),
		ManPages: make([]ManPage, 0, len(doc.ManPages)),
	}
	seen := make(map[int64]struct{}, len(doc.Groups))
	for i, sg := range doc.Groups {
		label := strings.TrimSpace(sg.Label)
		if label == "" {
			return Catalog{}, fmt.Errorf("%w: group %d has no label", ErrInvalidSeed, i)
		}
		if _, dup := seen[sg.ID]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate group id %d", ErrInvalidSeed, sg.ID)
		}
		seen[sg.ID] = struct{}{}
		group := Group{ID: sg.ID, Label: label, Icon: strings.TrimSpace(sg.Icon)}
		for _, sc := range sg.Commands {
			text := strings.TrimRight(sc.Text, "\n")
			if strings.TrimSpace(text) == "" {
				continue
			}
			group.Commands = append(group.Commands, Command{
				Text:     text,
				ManPages: cleanNames(sc.Mans),
				Output:   append([]int(nil), sc.Output...),
			})
		}
		cat.Groups = append(cat.Groups, group)
	}
	pages := make(map[string]struct{}, len(doc.ManPages))
	for _, sp := range doc.ManPages {
		name := strings.TrimSpace(sp.Name)
		if name == "" {
			return Catalog{}, fmt.Errorf("%w: man page without name", ErrInvalidSeed)
		}
		if _, dup := pages[name]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate man page %q", ErrInvalidSeed, name)
		}
		pages[name] = struct{}{}
		cat.ManPages = append(cat.ManPages, ManPage{
			Name:    name,
			Summary: strings.TrimSpace(sp.Summary),
			Body:    sp.Body,
		})
	}
	return cat, nil
}

// MarshalYAML renders a catalog back into the seed format.
func MarshalYAML(cat Catalog) ([]byte, error) {
	doc := seedFile{}
	for _, g := range cat.Groups {
		sg := seedGroup{ID: g.ID, Label: g.Label, Icon: g.Icon}
		for _, c := range g.Commands {
			sg.Commands = append(sg.Commands, seedCommand{Text: c.Text, Mans: c.ManPages, Output: c.Output})
		}
		doc.Groups = append(doc.Groups, sg)
	}
	for _, p := range cat.ManPages {
		doc.ManPages = append(doc.ManPages, seedManPage{Name: p.Name, Summary: p.Summary, Body: p.Body})
	}
	return yaml.Marshal(doc)
}

func cleanNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
