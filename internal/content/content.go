// Package content holds the portfolio's data tables: profile, skills,
// work history and the rest of what the page shows.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultYAML []byte

// ErrInvalid is returned when a content file fails validation.
var ErrInvalid = errors.New("invalid content")

// Tier is the rarity of a work history entry.
type Tier string

const (
	Legendary Tier = "LEGENDARY"
	Epic      Tier = "EPIC"
	Rare      Tier = "RARE"
	Uncommon  Tier = "UNCOMMON"
	Common    Tier = "COMMON"
)

// Tiers lists every tier from rarest to most common.
var Tiers = []Tier{Legendary, Epic, Rare, Uncommon, Common}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

type Portfolio struct {
	Profile       Profile     `yaml:"profile"`
	About         About       `yaml:"about"`
	Gallery       Gallery     `yaml:"gallery"`
	Skills        []Skill     `yaml:"skills"`
	Languages     []Language  `yaml:"languages"`
	Quests        []Quest     `yaml:"quests"`
	Education     []Education `yaml:"education"`
	Certification string      `yaml:"certification"`
	Contact       Contact     `yaml:"contact"`
}

type Profile struct {
	Handle         string   `yaml:"handle"`
	Initials       string   `yaml:"initials"`
	Name           string   `yaml:"name"`
	Role           string   `yaml:"role"`
	Location       string   `yaml:"location"`
	Tagline        string   `yaml:"tagline"`
	Avatar         string   `yaml:"avatar"`
	AvatarFallback string   `yaml:"avatar_fallback"`
	Description    string   `yaml:"description"`
	Keywords       []string `yaml:"keywords"`
	Footer         string   `yaml:"footer"`
}

type About struct {
	Quote string   `yaml:"quote"`
	Body  string   `yaml:"body"`
	Tags  []string `yaml:"tags"`
}

type Photo struct {
	Src     string  `yaml:"src"`
	Caption string  `yaml:"caption"`
	Rotate  float64 `yaml:"rotate"`
}

type Gallery struct {
	Subtitle string     `yaml:"subtitle"`
	Photos   []Photo    `yaml:"photos"`
	Feature  PhotoGroup `yaml:"feature"`
	Party    []Photo    `yaml:"party"`
}

// PhotoGroup is a titled row of photos below the main grid.
type PhotoGroup struct {
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Photos   []Photo `yaml:"photos"`
}

// Skill is a labelled proficiency percentage.
type Skill struct {
	Name  string  `yaml:"name"`
	Level float64 `yaml:"level"`
	Note  string  `yaml:"note,omitempty"`
}

type Language struct {
	Name  string  `yaml:"name"`
	Level string  `yaml:"level"`
	Pct   float64 `yaml:"pct"`
	Flag  string  `yaml:"flag"`
}

// Quest is one position in the work history.
type Quest struct {
	Company  string   `yaml:"company"`
	Role     string   `yaml:"role"`
	Period   string   `yaml:"period"`
	Location string   `yaml:"location"`
	Tier     Tier     `yaml:"tier"`
	Emoji    string   `yaml:"emoji"`
	Desc     []string `yaml:"desc"`
}

type Education struct {
	School string `yaml:"school"`
	Degree string `yaml:"degree"`
	Field  string `yaml:"field"`
	Period string `yaml:"period"`
	Emoji  string `yaml:"emoji"`
}

type Contact struct {
	Intro string `yaml:"intro"`
	Links []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
	Emoji string `yaml:"emoji"`
	Tone  string `yaml:"tone"`
}

// Default returns the content compiled into the binary.
func Default() (*Portfolio, error) {
	return Parse(defaultYAML)
}

// Load reads content from path, or the compiled-in content when path is empty.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML content document.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields the page cannot render without. Out-of-range
// percentages are left alone; bars clamp them when drawn.
func (p *Portfolio) Validate() error {
	if p.Profile.Name == "" {
		return fmt.Errorf("%w: profile.name is required", ErrInvalid)
	}
	for i, s := range p.Skills {
		if s.Name == "" {
			return fmt.Errorf("%w: skills[%d] has no name", ErrInvalid, i)
		}
	}
	for i, l := range p.Languages {
		if l.Name == "" {
			return fmt.Errorf("%w: languages[%d] has no name", ErrInvalid, i)
		}
	}
	for i, q := range p.Quests {
		if q.Company == "" || q.Role == "" {
			return fmt.Errorf("%w: quests[%d] needs company and role", ErrInvalid, i)
		}
		if !q.Tier.Valid() {
			return fmt.Errorf("%w: quests[%d] has unknown tier %q", ErrInvalid, i, q.Tier)
		}
	}
	for i, l := range p.Contact.Links {
		if l.Href == "" {
			return fmt.Errorf("%w: contact.links[%d] has no href", ErrInvalid, i)
		}
	}
	return nil
}
