package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset describes a seeding profile loaded from a YAML file. Zero-valued
// counts fall back to small defaults so a preset only needs to name what it
// cares about.
type Preset struct {
	Users           int              `yaml:"users"`
	HistoricalPosts int              `yaml:"historical_posts"`
	Drafts          int              `yaml:"drafts"`
	MaxDays         int              `yaml:"max_days"`
	Clean           bool             `yaml:"clean"`
	SkipBcrypt      bool             `yaml:"skip_bcrypt"`
	Platforms       []PlatformPreset `yaml:"platforms"`
}

// PlatformPreset replaces the built-in platform set for the demo account.
type PlatformPreset struct {
	Name            string   `yaml:"name"`
	Slug            string   `yaml:"slug"`
	MaxLength       int      `yaml:"max_length"`
	StyleGuidelines string   `yaml:"style_guidelines"`
	Keywords        []string `yaml:"keywords"`
}

// LoadPreset reads and validates a YAML seeding preset.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- preset path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}

	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}

	if p.Users <= 0 {
		p.Users = 10
	}
	if p.HistoricalPosts <= 0 {
		p.HistoricalPosts = 20
	}
	if p.Drafts <= 0 {
		p.Drafts = 5
	}

	for i, platform := range p.Platforms {
		if platform.Name == "" || platform.Slug == "" {
			return nil, fmt.Errorf("platform preset %d needs both name and slug", i)
		}
	}

	return &p, nil
}

// Options converts the preset into seeder options. Fields the preset does
// not cover keep their values from base.
func (p *Preset) Options(base Options) Options {
	out := base
	out.NumUsers = p.Users
	out.NumHistorical = p.HistoricalPosts
	out.NumDrafts = p.Drafts
	out.ShouldClean = p.Clean
	if p.MaxDays > 0 {
		out.MaxDays = p.MaxDays
	}
	if p.SkipBcrypt {
		out.SkipBcrypt = true
	}
	return out
}

// BuiltIns converts the preset's platform entries to the seeder's set.
func (p *Preset) BuiltIns() []BuiltInPlatform {
	out := make([]BuiltInPlatform, 0, len(p.Platforms))
	for _, platform := range p.Platforms {
		out = append(out, BuiltInPlatform{
			Name:            platform.Name,
			Slug:            platform.Slug,
			MaxLength:       platform.MaxLength,
			StyleGuidelines: platform.StyleGuidelines,
			Keywords:        platform.Keywords,
		})
	}
	return out
}
