package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Map         MapConfig         `mapstructure:"map"`
	Server      ServerConfig      `mapstructure:"server"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
}

// SimulationConfig holds the economic and military constants of the engine
type SimulationConfig struct {
	DraftQuota           int     `mapstructure:"draft_quota"`
	GrowthRate           float64 `mapstructure:"growth_rate"`
	FoodDecay            float64 `mapstructure:"food_decay"`
	CycleLength          int     `mapstructure:"cycle_length"`
	MovePointIncrement   float64 `mapstructure:"move_point_increment"`
	MovePointMax         float64 `mapstructure:"move_point_max"`
	BalanceCutoff        float64 `mapstructure:"balance_cutoff"`
	AccessibleRegionCost float64 `mapstructure:"accessible_region_cost"`
	MaxCostDistance      float64 `mapstructure:"max_cost_distance"`
	AnnexRadius          int     `mapstructure:"annex_radius"`
	TileCapacity         int     `mapstructure:"tile_capacity"`
	RationPerDraftee     int     `mapstructure:"ration_per_draftee"`
	RuralYield           float64 `mapstructure:"rural_yield"`
	SoldierRation        float64 `mapstructure:"soldier_ration"`
	PillageYieldRate     float64 `mapstructure:"pillage_yield_rate"`
	AttitudeRecovery     float64 `mapstructure:"attitude_recovery"`
	MaxTurns             int     `mapstructure:"max_turns"`
}

// MapConfig holds scenario generation settings
type MapConfig struct {
	Width           int     `mapstructure:"width"`
	Height          int     `mapstructure:"height"`
	Players         int     `mapstructure:"players"`
	Seed            int64   `mapstructure:"seed"`
	NoiseScale      float64 `mapstructure:"noise_scale"`
	RuralPopulation int     `mapstructure:"rural_population"`
	CapitalSpacing  int     `mapstructure:"capital_spacing"`
	CapitalGarrison int     `mapstructure:"capital_garrison"`
}

// ServerConfig holds the observer server configuration
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	BroadcastBuffer int    `mapstructure:"broadcast_buffer"`
	TurnIntervalMs  int    `mapstructure:"turn_interval_ms"`
}

// PersistenceConfig holds the battle ledger settings
type PersistenceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Simulation defaults
	v.SetDefault("simulation.draft_quota", 2500)
	v.SetDefault("simulation.growth_rate", 1.0/256)
	v.SetDefault("simulation.food_decay", 0.95)
	v.SetDefault("simulation.cycle_length", 12)
	v.SetDefault("simulation.move_point_increment", 2)
	v.SetDefault("simulation.move_point_max", 0)
	v.SetDefault("simulation.balance_cutoff", 15)
	v.SetDefault("simulation.accessible_region_cost", 16)
	v.SetDefault("simulation.max_cost_distance", 1024)
	v.SetDefault("simulation.annex_radius", 3)
	v.SetDefault("simulation.tile_capacity", 2500)
	v.SetDefault("simulation.ration_per_draftee", 5)
	v.SetDefault("simulation.rural_yield", 2)
	v.SetDefault("simulation.soldier_ration", 12)
	v.SetDefault("simulation.pillage_yield_rate", 0.01)
	v.SetDefault("simulation.attitude_recovery", 5)
	v.SetDefault("simulation.max_turns", 0)

	// Map defaults
	v.SetDefault("map.width", 32)
	v.SetDefault("map.height", 24)
	v.SetDefault("map.players", 2)
	v.SetDefault("map.seed", 0)
	v.SetDefault("map.noise_scale", 0.12)
	v.SetDefault("map.rural_population", 1200)
	v.SetDefault("map.capital_spacing", 8)
	v.SetDefault("map.capital_garrison", 2500)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")
	v.SetDefault("server.broadcast_buffer", 256)
	v.SetDefault("server.turn_interval_ms", 500)

	// Persistence defaults
	v.SetDefault("persistence.enabled", false)
	v.SetDefault("persistence.path", "warsim.db")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/warsim")
	}

	v.SetEnvPrefix("WARSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file, searched or explicit, falls back to defaults
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded configuration
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. onChange only sees
// configurations that pass Validate; invalid edits are reported to onError.
func WatchConfig(onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		if err := Validate(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", e.Name, err))
			}
			return
		}
		cfg = next
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	s := c.Simulation
	if s.DraftQuota <= 0 {
		return fmt.Errorf("simulation.draft_quota must be positive")
	}
	if s.GrowthRate < 0 {
		return fmt.Errorf("simulation.growth_rate must be non-negative")
	}
	if s.FoodDecay < 0 || s.FoodDecay > 1 {
		return fmt.Errorf("simulation.food_decay must be between 0 and 1")
	}
	if s.CycleLength <= 0 {
		return fmt.Errorf("simulation.cycle_length must be positive")
	}
	if s.MovePointIncrement <= 0 {
		return fmt.Errorf("simulation.move_point_increment must be positive")
	}
	if s.BalanceCutoff <= 0 {
		return fmt.Errorf("simulation.balance_cutoff must be positive")
	}
	if s.AccessibleRegionCost <= 0 || s.MaxCostDistance <= 0 {
		return fmt.Errorf("simulation cost distances must be positive")
	}
	if s.AnnexRadius < 0 {
		return fmt.Errorf("simulation.annex_radius must be non-negative")
	}
	if s.TileCapacity <= 0 {
		return fmt.Errorf("simulation.tile_capacity must be positive")
	}
	if s.RationPerDraftee < 0 || s.RuralYield < 0 || s.SoldierRation < 0 || s.PillageYieldRate < 0 {
		return fmt.Errorf("simulation food rates must be non-negative")
	}
	if s.MaxTurns < 0 {
		return fmt.Errorf("simulation.max_turns must be non-negative")
	}

	m := c.Map
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map dimensions must be positive")
	}
	if m.Players < 1 || m.Players > 6 {
		return fmt.Errorf("map.players must be between 1 and 6")
	}
	if m.NoiseScale <= 0 {
		return fmt.Errorf("map.noise_scale must be positive")
	}
	if m.RuralPopulation < 0 || m.CapitalGarrison < 0 {
		return fmt.Errorf("map populations must be non-negative")
	}
	if m.CapitalSpacing < 1 {
		return fmt.Errorf("map.capital_spacing must be at least 1")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.BroadcastBuffer < 0 {
		return fmt.Errorf("server.broadcast_buffer must be non-negative")
	}
	if c.Server.TurnIntervalMs < 0 {
		return fmt.Errorf("server.turn_interval_ms must be non-negative")
	}

	if c.Persistence.Enabled && c.Persistence.Path == "" {
		return fmt.Errorf("persistence.path is required when persistence is enabled")
	}

	return nil
}
