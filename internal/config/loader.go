package config

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"hexdominion/internal/model"
)

// Load builds the ConfigSnapshot the resolver holds for the game's
// lifetime: it starts from Default() and overlays whatever the
// named declarative file (and HEXDOMINION_-prefixed environment
// variables) supplies, the same optional-file-over-defaults shape as
// a process-start-only concern. The core never calls this itself -
// only cmd/hexturn does, at process start - matching exclusion of
// config-file parsing from the resolver's own scope.
func Load(configFile string) *model.ConfigSnapshot {
	cfg := Default()

	viper.SetEnvPrefix("HEXDOMINION")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	if len(configFile) > 0 {
		viper.SetConfigName(configFile)
		viper.AddConfigPath(".")
		viper.AddConfigPath("data/config")
		// A missing or unreadable file leaves the environment overlay only.
		_ = viper.ReadInConfig()
	}

	overlayShips(cfg)
	overlayFacilities(cfg)
	overlaySetup(cfg)
	overlayResearch(cfg)

	return cfg
}

// overlayShips replaces a named ship class's base cost wherever the file
// sets "Ships.<class>.BaseCost" - the only balance knob a design pass
// typically needs to retune without touching Go code. Attack/defense/
// hull/command-cost overlays follow the identical per-key pattern and
// are omitted here for the classes the declarative tables don't mention.
func overlayShips(cfg *model.ConfigSnapshot) {
	for class := range cfg.Ships {
		key := "Ships." + class + ".BaseCost"
		if viper.IsSet(key) {
			stats := cfg.Ships[class]
			stats.BaseCost = decimal.NewFromFloat(viper.GetFloat64(key))
			cfg.Ships[class] = stats
		}
	}
}

func overlayFacilities(cfg *model.ConfigSnapshot) {
	names := map[model.FacilityKind]string{
		model.Spaceport: "Spaceport",
		model.Shipyard:  "Shipyard",
		model.Drydock:   "Drydock",
		model.Starbase:  "Starbase",
	}
	for kind, name := range names {
		key := "Facilities." + name + ".BaseCost"
		if viper.IsSet(key) {
			stats := cfg.Facilities[kind]
			stats.BaseCost = decimal.NewFromFloat(viper.GetFloat64(key))
			cfg.Facilities[kind] = stats
		}
	}
}

func overlaySetup(cfg *model.ConfigSnapshot) {
	if viper.IsSet("Setup.StartingTreasury") {
		cfg.Setup.StartingTreasury = decimal.NewFromFloat(viper.GetFloat64("Setup.StartingTreasury"))
	}
	if viper.IsSet("Setup.TechAdvancementTurnModulo") {
		cfg.Setup.TechAdvancementTurnModulo = viper.GetInt("Setup.TechAdvancementTurnModulo")
	}
	if viper.IsSet("Setup.PopulationCap") {
		cfg.Setup.PopulationCap = decimal.NewFromFloat(viper.GetFloat64("Setup.PopulationCap"))
	}
	if viper.IsSet("RNGSeed") {
		cfg.RNGSeed = viper.GetInt64("RNGSeed")
	}
}

func overlayResearch(cfg *model.ConfigSnapshot) {
	if viper.IsSet("Research.BreakthroughCap") {
		cfg.ResearchCosts.BreakthroughCap = decimal.NewFromFloat(viper.GetFloat64("Research.BreakthroughCap"))
	}
	if viper.IsSet("Research.MaxEL") {
		cfg.ResearchCosts.MaxEL = viper.GetInt("Research.MaxEL")
	}
	if viper.IsSet("Research.MaxSL") {
		cfg.ResearchCosts.MaxSL = viper.GetInt("Research.MaxSL")
	}
}
