package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearguessr/internal/catalog"
	"gearguessr/internal/models"
)

func TestLoad_EmbeddedDatabase(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, cat.Size(models.TierEasy), 10, "easy tier must cover a career batch")
	assert.GreaterOrEqual(t, cat.Size(models.TierMedium), 10)
	assert.GreaterOrEqual(t, cat.Size(models.TierHard), 10)
	assert.Equal(t, []models.Tier{models.TierEasy, models.TierMedium, models.TierHard}, cat.Tiers())
}

func TestLoad_TemplatesAreComplete(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	for _, tier := range cat.Tiers() {
		for _, tpl := range cat.ByTier(tier) {
			assert.NotEmpty(t, tpl.ID)
			assert.NotEmpty(t, tpl.Vehicle.Brand)
			assert.NotEmpty(t, tpl.Vehicle.Model)
			assert.NotZero(t, tpl.Vehicle.Year)
			assert.NotEmpty(t, tpl.ImageKey)
			assert.Equal(t, tier, tpl.Level)
			assert.Contains(t, tpl.BrandOptions, tpl.Vehicle.Brand, "%s: decoys must include the answer", tpl.ID)
			assert.Contains(t, tpl.ModelOptions, tpl.Vehicle.Model, "%s: decoys must include the answer", tpl.ID)
			assert.Contains(t, tpl.YearOptions, tpl.Vehicle.Year, "%s: decoys must include the answer", tpl.ID)
		}
	}
}

func TestLoad_WithExcludedImages(t *testing.T) {
	full, err := catalog.Load()
	require.NoError(t, err)
	key := full.ByTier(models.TierEasy)[0].ImageKey

	filtered, err := catalog.Load(catalog.WithExcludedImages(key))
	require.NoError(t, err)

	assert.Equal(t, full.Size(models.TierEasy)-1, filtered.Size(models.TierEasy))
	for _, tpl := range filtered.ByTier(models.TierEasy) {
		assert.NotEqual(t, key, tpl.ImageKey)
	}
}

func TestNew_BucketsByTier(t *testing.T) {
	cat := catalog.New([]models.VehicleTemplate{
		{ID: "a", Level: models.TierEasy},
		{ID: "b", Level: models.TierEasy},
		{ID: "c", Level: models.TierHard},
	})

	assert.Equal(t, 2, cat.Size(models.TierEasy))
	assert.Equal(t, 0, cat.Size(models.TierMedium))
	assert.Equal(t, 1, cat.Size(models.TierHard))
}
