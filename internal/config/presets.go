package config

import "sort"

// Presets are playback profiles. Only the fields a preset sets are applied.
var Presets = map[string]*Config{
	"lecture": {Speed: 0.5, Theme: "slate"},
	"quick":   {Speed: 2.0, Theme: "cyan"},
	"kiosk":   {Speed: 1.0, Loop: true, Theme: "purple"},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithPreset returns a copy of c with the named preset applied on top.
func (c *Config) WithPreset(name string) (*Config, bool) {
	p := GetPreset(name)
	if p == nil {
		return nil, false
	}
	cp := *c
	cp.Merge(p)
	return &cp, true
}
