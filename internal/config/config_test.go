package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_PopulatesEveryDeclarativeTable(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.Ships)
	assert.NotEmpty(t, cfg.Facilities)
	assert.NotEmpty(t, cfg.Ground)
	assert.NotEmpty(t, cfg.PlanetClasses)
	assert.Equal(t, ResearchFieldNames, cfg.ResearchFields)
	assert.True(t, cfg.Setup.StartingTreasury.IsPositive())
}

func TestNewGame_FoundsOneHomeColonyPerHouse(t *testing.T) {
	cfg := Default()

	g, err := NewGame(cfg, []string{"Sol Dominion", "Krell Ascendancy"}, 2, 42)
	require.NoError(t, err)
	assert.Len(t, g.Houses.All(), 2)

	for _, h := range g.Houses.All() {
		found := false
		for _, c := range g.Colonies.All() {
			if c.Owner == h.ID {
				found = true
				assert.NotEmpty(t, c.Facilities)
				break
			}
		}
		assert.True(t, found, "house %s has no home colony", h.Name)
	}
}

func TestNewGame_IsDeterministicForASharedSeed(t *testing.T) {
	cfg := Default()

	g1, err := NewGame(cfg, []string{"Sol Dominion", "Krell Ascendancy"}, 2, 7)
	require.NoError(t, err)
	g2, err := NewGame(cfg, []string{"Sol Dominion", "Krell Ascendancy"}, 2, 7)
	require.NoError(t, err)

	assert.Equal(t, len(g1.Systems.All()), len(g2.Systems.All()))
}
