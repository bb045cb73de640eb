// Package config loads site configurations for the permafrost model
// from YAML files or SQLite databases through a common provider
// interface.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/permafrostlab/frostline/pkg/ku"
)

// Default vegetation thermal diffusivities, applied when a site omits
// them. Values are representative of moss/organic mats in the frozen
// and thawed state.
const (
	DefaultFrozenDiffusivity = 1.39e-6 // m²/s
	DefaultThawedDiffusivity = 5.56e-8 // m²/s
)

// SiteProvider defines the interface for site configuration sources.
type SiteProvider interface {
	// LoadSites returns every site in the source.
	LoadSites() ([]SiteData, error)

	// GetSite returns one site by name.
	GetSite(name string) (*SiteData, error)

	IsReadOnly() bool
	Close() error
}

// SiteData is the full configuration for one model site.
type SiteData struct {
	Name       string             `yaml:"name"`
	Climate    ClimateData        `yaml:"climate"`
	Snow       SnowData           `yaml:"snow,omitempty"`
	Vegetation VegetationData     `yaml:"vegetation,omitempty"`
	Soil       SoilData           `yaml:"soil"`
	Classes    []TextureClassData `yaml:"classes,omitempty"`
}

// ClimateData holds the annual air temperature statistics.
type ClimateData struct {
	MeanAnnualTemp  float64 `yaml:"mean-annual-temp"`
	AnnualAmplitude float64 `yaml:"annual-amplitude"`
}

// SnowData holds the seasonal snow cover parameters.
type SnowData struct {
	Depth   float64 `yaml:"depth,omitempty"`
	Density float64 `yaml:"density,omitempty"`
}

// VegetationData holds the seasonal vegetation parameters.
type VegetationData struct {
	WinterHeight      float64 `yaml:"winter-height,omitempty"`
	SummerHeight      float64 `yaml:"summer-height,omitempty"`
	FrozenDiffusivity float64 `yaml:"frozen-diffusivity,omitempty"`
	ThawedDiffusivity float64 `yaml:"thawed-diffusivity,omitempty"`
}

// SoilData holds the texture fractions and water content.
type SoilData struct {
	Fractions    map[string]float64 `yaml:"fractions"`
	WaterContent float64            `yaml:"water-content"`
}

// TextureClassData overrides or extends the built-in texture table.
type TextureClassData struct {
	Name         string  `yaml:"name"`
	BulkDensity  float64 `yaml:"bulk-density"`
	HeatCapacity float64 `yaml:"heat-capacity"`
	ThawedDry    float64 `yaml:"thawed-dry"`
	ThawedWet    float64 `yaml:"thawed-wet"`
	FrozenDry    float64 `yaml:"frozen-dry"`
	FrozenWet    float64 `yaml:"frozen-wet"`
}

// ToInputs converts a site configuration into model inputs, filling in
// the default vegetation diffusivities where the site omits them and
// merging any texture-class overrides with the built-in table.
func (s *SiteData) ToInputs() ku.Inputs {
	in := ku.Inputs{
		Climate: ku.Climate{
			MeanAnnualTemp:  s.Climate.MeanAnnualTemp,
			AnnualAmplitude: s.Climate.AnnualAmplitude,
		},
		Snow: ku.Snow{
			Depth:   s.Snow.Depth,
			Density: s.Snow.Density,
		},
		Vegetation: ku.Vegetation{
			WinterHeight:      s.Vegetation.WinterHeight,
			SummerHeight:      s.Vegetation.SummerHeight,
			FrozenDiffusivity: s.Vegetation.FrozenDiffusivity,
			ThawedDiffusivity: s.Vegetation.ThawedDiffusivity,
		},
		Soil: ku.SoilTexture{
			Fractions:    s.Soil.Fractions,
			WaterContent: s.Soil.WaterContent,
		},
	}
	if in.Vegetation.FrozenDiffusivity == 0 {
		in.Vegetation.FrozenDiffusivity = DefaultFrozenDiffusivity
	}
	if in.Vegetation.ThawedDiffusivity == 0 {
		in.Vegetation.ThawedDiffusivity = DefaultThawedDiffusivity
	}
	if len(s.Classes) > 0 {
		in.Classes = mergeClasses(ku.DefaultTextureClasses(), s.Classes)
	}
	return in
}

func mergeClasses(base []ku.TextureClass, overrides []TextureClassData) []ku.TextureClass {
	merged := make([]ku.TextureClass, len(base))
	copy(merged, base)
	for _, o := range overrides {
		tc := ku.TextureClass{
			Name:         o.Name,
			BulkDensity:  o.BulkDensity,
			HeatCapacity: o.HeatCapacity,
			ThawedDry:    o.ThawedDry,
			ThawedWet:    o.ThawedWet,
			FrozenDry:    o.FrozenDry,
			FrozenWet:    o.FrozenWet,
		}
		replaced := false
		for i := range merged {
			if merged[i].Name == tc.Name {
				merged[i] = tc
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, tc)
		}
	}
	return merged
}

// NewProvider selects a provider by the file extension of path:
// .db/.sqlite/.sqlite3 open a SQLite database, everything else is read
// as YAML.
func NewProvider(path string) (SiteProvider, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteProvider(path)
	default:
		return NewYAMLProvider(path), nil
	}
}

// findSite is shared by the providers' GetSite implementations.
func findSite(sites []SiteData, name string) (*SiteData, error) {
	for i := range sites {
		if sites[i].Name == name {
			return &sites[i], nil
		}
	}
	return nil, fmt.Errorf("site %q not found", name)
}
