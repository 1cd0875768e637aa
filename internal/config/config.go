package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides (ECGDASH_BACKEND_URL, ...).
const EnvPrefix = "ECGDASH"

// Config is the complete ecgdash configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// BackendConfig points the gateway at the ECG backend.
type BackendConfig struct {
	URL string `mapstructure:"url" default:"http://localhost:8000" validate:"required,url"`
	// Timeout bounds each HTTP call. Zero leaves calls unbounded.
	Timeout time.Duration `mapstructure:"timeout" default:"0s"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" default:"console" validate:"oneof=console json"`
	File   string `mapstructure:"file"`
}

// DashboardConfig holds the initial dashboard state and behavior switches.
type DashboardConfig struct {
	Channel          string  `mapstructure:"channel" default:"normal" validate:"oneof=normal abnormal"`
	StaleRisk        string  `mapstructure:"stale_risk" default:"apply" validate:"oneof=apply discard"`
	ChartDir         string  `mapstructure:"chart_dir"`
	Theme            string  `mapstructure:"theme" default:"dark" validate:"oneof=dark light"`
	AbnormalityLevel float64 `mapstructure:"abnormality_level" default:"0.5" validate:"gte=0,lte=1"`
	LevelStep        float64 `mapstructure:"level_step" default:"0.01" validate:"gt=0,lte=1"`
}

// JournalConfig controls the sqlite operation journal.
type JournalConfig struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled" default:"true"`
}

// MetricsConfig controls the optional prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

var validate = validator.New()

// envKeys are bound explicitly so environment overrides reach Unmarshal even
// when no config file mentions them.
var envKeys = []string{
	"backend.url",
	"backend.timeout",
	"logging.level",
	"logging.format",
	"logging.file",
	"dashboard.channel",
	"dashboard.stale_risk",
	"dashboard.chart_dir",
	"dashboard.theme",
	"dashboard.abnormality_level",
	"dashboard.level_step",
	"journal.path",
	"journal.enabled",
	"metrics.addr",
}

// BindEnv wires ECGDASH_* environment variables into v.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// Load builds a Config from defaults overlaid with everything v knows about
// (config file, environment, bound flags) and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if v != nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.Logging.File = ExpandPath(cfg.Logging.File)
	cfg.Journal.Path = ExpandPath(cfg.Journal.Path)
	cfg.Dashboard.ChartDir = ExpandPath(cfg.Dashboard.ChartDir)
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath()
	}
	if cfg.Dashboard.ChartDir == "" {
		cfg.Dashboard.ChartDir = DefaultChartDir()
	}
	cfg.Dashboard.Channel = strings.ToLower(cfg.Dashboard.Channel)
	cfg.Dashboard.StaleRisk = strings.ToLower(cfg.Dashboard.StaleRisk)
	cfg.Dashboard.Theme = strings.ToLower(cfg.Dashboard.Theme)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("%w: backend.timeout must not be negative", common.ErrInvalidConfig)
	}
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldKey(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// fieldKey maps a struct namespace such as Config.Dashboard.LevelStep back to
// its config key dashboard.level_step.
func fieldKey(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	typ := reflect.TypeOf(Config{})
	keys := make([]string, 0, len(parts))
	for _, name := range parts {
		field, ok := typ.FieldByName(name)
		if !ok {
			keys = append(keys, strings.ToLower(name))
			continue
		}
		keys = append(keys, field.Tag.Get("mapstructure"))
		typ = field.Type
	}
	return strings.Join(keys, ".")
}
