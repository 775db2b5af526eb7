// Package catalog holds the static vehicle puzzle templates. The set is
// defined at deploy time, embedded in the binary, and never mutated.
package catalog

import (
	_ "embed"
	"fmt"

	json "github.com/goccy/go-json"

	"gearguessr/internal/models"
)

//go:embed vehicles.json
var vehiclesJSON []byte

type database struct {
	Easy   []models.VehicleTemplate `json:"easy"`
	Medium []models.VehicleTemplate `json:"medium"`
	Hard   []models.VehicleTemplate `json:"hard"`
}

type Catalog struct {
	byTier map[models.Tier][]models.VehicleTemplate
}

// Option configures catalog loading.
type Option func(*loadOptions)

type loadOptions struct {
	excludedImages map[string]bool
}

// WithExcludedImages drops templates whose image key is known to be
// broken, so they are never served.
func WithExcludedImages(keys ...string) Option {
	return func(o *loadOptions) {
		for _, k := range keys {
			o.excludedImages[k] = true
		}
	}
}

func applyOptions(opts []Option) loadOptions {
	o := loadOptions{excludedImages: map[string]bool{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Load parses the embedded template database.
func Load(opts ...Option) (*Catalog, error) {
	var db database
	if err := json.Unmarshal(vehiclesJSON, &db); err != nil {
		return nil, fmt.Errorf("parse vehicle database: %w", err)
	}
	o := applyOptions(opts)
	return &Catalog{byTier: map[models.Tier][]models.VehicleTemplate{
		models.TierEasy:   exclude(db.Easy, o.excludedImages),
		models.TierMedium: exclude(db.Medium, o.excludedImages),
		models.TierHard:   exclude(db.Hard, o.excludedImages),
	}}, nil
}

// New builds a catalog from an explicit template list, bucketed by tier.
// Used by tests and tooling; Load is the production path.
func New(templates []models.VehicleTemplate, opts ...Option) *Catalog {
	o := applyOptions(opts)
	byTier := map[models.Tier][]models.VehicleTemplate{}
	for _, t := range templates {
		if o.excludedImages[t.ImageKey] {
			continue
		}
		byTier[t.Level] = append(byTier[t.Level], t)
	}
	return &Catalog{byTier: byTier}
}

func exclude(in []models.VehicleTemplate, excluded map[string]bool) []models.VehicleTemplate {
	if len(excluded) == 0 {
		return in
	}
	out := make([]models.VehicleTemplate, 0, len(in))
	for _, t := range in {
		if excluded[t.ImageKey] {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ByTier returns the templates for a tier. The returned slice is shared;
// callers must not mutate it. An unknown or empty tier yields nil, which
// callers treat as not found.
func (c *Catalog) ByTier(tier models.Tier) []models.VehicleTemplate {
	return c.byTier[tier]
}

// Size returns the number of templates in a tier.
func (c *Catalog) Size(tier models.Tier) int {
	return len(c.byTier[tier])
}

// Tiers lists the tiers that have at least one template.
func (c *Catalog) Tiers() []models.Tier {
	out := make([]models.Tier, 0, len(c.byTier))
	for _, t := range []models.Tier{models.TierEasy, models.TierMedium, models.TierHard} {
		if len(c.byTier[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}
