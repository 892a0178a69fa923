package site

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTheme is returned for a theme name that is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is one visual variant of the page. Variants share markup and
// differ only in palette.
type Theme struct {
	Name      string
	Label     string
	BodyClass string
	Dark      bool
}

var themes = map[string]Theme{
	"fabulous": {Name: "fabulous", Label: "Fabulous", BodyClass: "theme-fabulous"},
	"noir":     {Name: "noir", Label: "Noir", BodyClass: "theme-noir", Dark: true},
}

// LookupTheme returns the named theme.
func LookupTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// Themes returns every registered theme sorted by name.
func Themes() []Theme {
	out := make([]Theme, 0, len(themes))
	for _, t := range themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
