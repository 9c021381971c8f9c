package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defect"
)

const (
	// AllDefects is the preset that accepts every record.
	AllDefects = "(all defects)"
	// WSPMin hides the coverage records.
	WSPMin = "wspmin"
)

// Preset is a named predicate over defect records.
// An empty IncludeCodes list accepts every code; MaxRank 0 accepts every rank.
type Preset struct {
	Name         string   `yaml:"name"`
	IncludeCodes []string `yaml:"include_codes"`
	ExcludeCodes []string `yaml:"exclude_codes"`
	MaxRank      int      `yaml:"max_rank"`
}

// Accept reports whether d passes the preset.
func (p Preset) Accept(d defect.Defect) bool {
	if len(p.IncludeCodes) > 0 && !d.HasCode(p.IncludeCodes...) {
		return false
	}
	if d.HasCode(p.ExcludeCodes...) {
		return false
	}
	if p.MaxRank > 0 {
		rank, err := strconv.Atoi(strings.TrimSpace(d.Rank))
		if err == nil && rank > p.MaxRank {
			return false
		}
	}
	return true
}

// IsAll reports whether the preset is the unfiltered view.
func (p Preset) IsAll() bool {
	return p.Name == AllDefects
}

// Presets is the set of filter presets known to pfast.
type Presets struct {
	presets map[string]Preset
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// DefaultPresets returns the built-in presets.
func DefaultPresets(coverageCodes []string) *Presets {
	p := &Presets{presets: map[string]Preset{}}
	p.add(Preset{Name: AllDefects})
	p.add(Preset{Name: WSPMin, ExcludeCodes: append([]string(nil), coverageCodes...)})
	return p
}

// LoadPresets returns the built-in presets extended with the presets listed in the YAML file at path.
func LoadPresets(path string, coverageCodes []string) (*Presets, error) {
	p := DefaultPresets(coverageCodes)
	if path == "" {
		return p, nil
	}

	var file presetsFile
	if err := config.LoadYAML(path, &file); err != nil {
		return nil, fmt.Errorf("failed to load filter presets %q: %w", path, err)
	}
	for i, preset := range file.Presets {
		if strings.TrimSpace(preset.Name) == "" {
			return nil, fmt.Errorf("filter preset %d in %q has no name", i+1, path)
		}
		if preset.MaxRank < 0 {
			return nil, fmt.Errorf("filter preset %q: max_rank cannot be negative", preset.Name)
		}
		p.add(preset)
	}
	return p, nil
}

func (p *Presets) add(preset Preset) {
	p.presets[strings.ToLower(preset.Name)] = preset
}

// Get returns the preset called name, case-insensitively. An empty name selects AllDefects.
func (p *Presets) Get(name string) (Preset, error) {
	if name == "" {
		name = AllDefects
	}
	preset, ok := p.presets[strings.ToLower(name)]
	if !ok {
		return Preset{}, fmt.Errorf("unknown filter preset %q, valid presets: %s", name, strings.Join(p.Names(), ", "))
	}
	return preset, nil
}

// Names lists the preset names in alphabetical order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.presets))
	for _, preset := range p.presets {
		names = append(names, preset.Name)
	}
	sort.Strings(names)
	return names
}

// Apply returns a new document holding the records of doc accepted by preset, in order.
func Apply(doc *defect.Document, preset Preset) *defect.Document {
	out := defect.NewDocument()
	for _, d := range doc.Defects {
		if preset.Accept(d) {
			out.Append(d)
		}
	}
	return out
}
