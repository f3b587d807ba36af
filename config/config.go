package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// DataConfig locates the reference files. Relative file names are resolved against Dir.
type DataConfig struct {
	Source               string `mapstructure:"source"`
	Dir                  string `mapstructure:"dir"`
	POIs                 string `mapstructure:"pois"`
	Desired              string `mapstructure:"desired"`
	Proposal             string `mapstructure:"proposal"`
	UserTypes            string `mapstructure:"userTypes"`
	POIPreferences       string `mapstructure:"poiPreferences"`
	TransportPreferences string `mapstructure:"transportPreferences"`
	PersuasiveTexts      string `mapstructure:"persuasiveTexts"`
	MockCompare          string `mapstructure:"mockCompare"`
	PlansDir             string `mapstructure:"plansDir"`
}

// Resolve joins every relative path onto Dir.
func (d *DataConfig) Resolve() {
	for _, p := range []*string{
		&d.POIs, &d.Desired, &d.Proposal, &d.UserTypes, &d.POIPreferences,
		&d.TransportPreferences, &d.PersuasiveTexts, &d.MockCompare, &d.PlansDir,
	} {
		if *p != "" && d.Dir != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(d.Dir, *p)
		}
	}
}

type Config struct {
	Mode   string     `mapstructure:"mode"`
	Dotenv string     `mapstructure:"dotenv"`
	Data   DataConfig `mapstructure:"data"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"ShutdownTimeout"`
		RateLimit       int           `mapstructure:"RateLimit"`
		AllowedOrigins  []string      `mapstructure:"AllowedOrigins"`
	} `mapstructure:"server"`
	Scoring struct {
		Strategy     string `mapstructure:"strategy"`
		HourOffset   int    `mapstructure:"hourOffset"`
		DesiredBias  int    `mapstructure:"desiredBias"`
		ProposalBias int    `mapstructure:"proposalBias"`
		PeakGap      int    `mapstructure:"peakGap"`
		OffPeakGap   int    `mapstructure:"offPeakGap"`
	} `mapstructure:"scoring"`
	Comparison struct {
		DefaultUser     string `mapstructure:"defaultUser"`
		DefaultUserType string `mapstructure:"defaultUserType"`
		UseMockOverride bool   `mapstructure:"useMockOverride"`
		MaxPlanUser     int    `mapstructure:"maxPlanUser"`
	} `mapstructure:"comparison"`
	Cache struct {
		ReferenceTTL  time.Duration `mapstructure:"referenceTTL"`
		PersuasionTTL time.Duration `mapstructure:"persuasionTTL"`
		CleanupEvery  time.Duration `mapstructure:"cleanupEvery"`
	} `mapstructure:"cache"`
	Export struct {
		Enabled  bool     `mapstructure:"enabled"`
		Users    []string `mapstructure:"users"`
		CSVPath  string   `mapstructure:"csvPath"`
		Postgres bool     `mapstructure:"postgres"`
	} `mapstructure:"export"`
	Persuasion struct {
		Enabled     bool          `mapstructure:"enabled"`
		Model       string        `mapstructure:"model"`
		APIKey      string        `mapstructure:"apiKey"`
		Temperature float32       `mapstructure:"temperature"`
		Timeout     time.Duration `mapstructure:"timeout"`
	} `mapstructure:"persuasion"`
	Handlers struct {
		Prometheus struct {
			Enabled bool   `mapstructure:"enabled"`
			Path    string `mapstructure:"path"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Enabled           bool   `mapstructure:"enabled"`
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.SetConfigName("config")
	v.SetConfigType("yml")

	// ITINERARY_PERSUASION_APIKEY, ITINERARY_REPOSITORIES_POSTGRES_PASSWORD, ...
	v.SetEnvPrefix("itinerary")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func InitConfig() (Config, error) {
	v := newViper()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}
	return unmarshal(v)
}

// Embedded returns the configuration compiled into the binary, ignoring files on disk.
func Embedded() (Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
		return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// GEMINI_API_KEY is what the genai tooling reads; honour it when the config leaves the key blank.
	if config.Persuasion.APIKey == "" {
		config.Persuasion.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	config.Data.Resolve()
	return config, nil
}
