package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// MaxTranslationRetries bounds translation.max_retries so backoff delays stay finite.
const MaxTranslationRetries = 10

// Config captures the runtime configuration for the translator service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" json:"server"`
	Translation   TranslationConfig   `mapstructure:"translation" json:"translation"`
	Speech        SpeechConfig        `mapstructure:"speech" json:"speech"`
	Audio         AudioConfig         `mapstructure:"audio" json:"audio"`
	Providers     ProviderConfig      `mapstructure:"providers" json:"providers"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
	Health        HealthConfig        `mapstructure:"health" json:"health"`
}

type ServerConfig struct {
	ListenAddr            string        `mapstructure:"listen_addr" json:"listen_addr"`
	Environment           string        `mapstructure:"environment" json:"environment"`
	BodyLimitMB           int           `mapstructure:"body_limit_mb" json:"body_limit_mb"`
	ReadTimeout           time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	GracefulShutdownDelay time.Duration `mapstructure:"graceful_shutdown_delay" json:"graceful_shutdown_delay"`
	SecretKey             string        `mapstructure:"secret_key" json:"-"`
}

type TranslationConfig struct {
	Provider           string        `mapstructure:"provider" json:"provider"`
	MaxRetries         int           `mapstructure:"max_retries" json:"max_retries"`
	InitialDelay       time.Duration `mapstructure:"initial_delay" json:"initial_delay"`
	DefaultSource      string        `mapstructure:"default_source" json:"default_source"`
	DefaultDestination string        `mapstructure:"default_destination" json:"default_destination"`
}

type SpeechConfig struct {
	Provider string `mapstructure:"provider" json:"provider"`
}

type AudioConfig struct {
	Storage       string           `mapstructure:"storage" json:"storage"`
	PublicPrefix  string           `mapstructure:"public_prefix" json:"public_prefix"`
	EncryptionKey string           `mapstructure:"encryption_key" json:"-"`
	TTL           time.Duration    `mapstructure:"ttl" json:"ttl"`
	SweepInterval time.Duration    `mapstructure:"sweep_interval" json:"sweep_interval"`
	S3            AudioS3Config    `mapstructure:"s3" json:"s3"`
	Local         AudioLocalConfig `mapstructure:"local" json:"local"`
}

type AudioS3Config struct {
	Bucket       string `mapstructure:"bucket" json:"bucket"`
	Prefix       string `mapstructure:"prefix" json:"prefix"`
	Region       string `mapstructure:"region" json:"region"`
	Endpoint     string `mapstructure:"endpoint" json:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style" json:"use_path_style"`
}

type AudioLocalConfig struct {
	Directory string `mapstructure:"directory" json:"directory"`
}

type ObservabilityConfig struct {
	OTLPEndpoint  string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`
	EnableOTLP    bool   `mapstructure:"enable_otlp" json:"enable_otlp"`
	EnableMetrics bool   `mapstructure:"enable_metrics" json:"enable_metrics"`
}

type HealthConfig struct {
	CheckInterval time.Duration `mapstructure:"check_interval" json:"check_interval"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
}

// Options controls the config loader behavior.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load returns the merged configuration sourced from YAML and environment variables.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else {
		if cfg := os.Getenv("TRANSLATOR_CONFIG_FILE"); cfg != "" {
			v.SetConfigFile(cfg)
			explicitFile = true
		}
	}

	if !explicitFile {
		v.SetConfigName("translator")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("TRANSLATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(timeStringToDurationHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes values and rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.ListenAddr) == "" {
		return fmt.Errorf("server.listen_addr must be provided")
	}
	if c.Server.BodyLimitMB <= 0 {
		c.Server.BodyLimitMB = 1
	}
	c.Server.Environment = strings.ToLower(strings.TrimSpace(c.Server.Environment))
	if c.Server.Environment == "" {
		c.Server.Environment = "production"
	}

	if err := c.Translation.validate(); err != nil {
		return err
	}
	c.Speech.Provider = normalizeSlug(c.Speech.Provider)
	if c.Speech.Provider == "" {
		c.Speech.Provider = "google"
	}
	if err := c.Audio.validate(); err != nil {
		return err
	}
	if c.Health.CheckInterval <= 0 {
		c.Health.CheckInterval = time.Minute
	}
	if c.Health.Timeout <= 0 || c.Health.Timeout > c.Health.CheckInterval {
		c.Health.Timeout = 5 * time.Second
	}
	if c.Providers.Google.Timeout <= 0 {
		c.Providers.Google.Timeout = 10 * time.Second
	}
	return nil
}

func (t *TranslationConfig) validate() error {
	t.Provider = normalizeSlug(t.Provider)
	if t.Provider == "" {
		t.Provider = "google"
	}
	if t.MaxRetries <= 0 {
		return fmt.Errorf("translation.max_retries must be > 0")
	}
	if t.MaxRetries > MaxTranslationRetries {
		return fmt.Errorf("translation.max_retries must be <= %d", MaxTranslationRetries)
	}
	if t.InitialDelay < 0 {
		return fmt.Errorf("translation.initial_delay must be >= 0")
	}
	t.DefaultSource = strings.ToLower(strings.TrimSpace(t.DefaultSource))
	if t.DefaultSource == "" {
		t.DefaultSource = "en"
	}
	t.DefaultDestination = strings.ToLower(strings.TrimSpace(t.DefaultDestination))
	if t.DefaultDestination == "" {
		t.DefaultDestination = "es"
	}
	return nil
}

func (a *AudioConfig) validate() error {
	a.Storage = strings.ToLower(strings.TrimSpace(a.Storage))
	switch a.Storage {
	case "":
		a.Storage = "local"
	case "local", "s3":
	default:
		return fmt.Errorf("audio.storage must be local or s3")
	}
	if a.Storage == "s3" && strings.TrimSpace(a.S3.Bucket) == "" {
		return fmt.Errorf("audio.s3.bucket must be provided for s3 storage")
	}
	prefix := "/" + strings.Trim(strings.TrimSpace(a.PublicPrefix), "/")
	if prefix == "/" {
		prefix = "/static/audio"
	}
	a.PublicPrefix = prefix
	if strings.TrimSpace(a.Local.Directory) == "" {
		a.Local.Directory = "static/audio"
	}
	if a.TTL < 0 {
		return fmt.Errorf("audio.ttl must be >= 0")
	}
	if a.SweepInterval <= 0 {
		a.SweepInterval = 15 * time.Minute
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":5000")
	v.SetDefault("server.environment", "production")
	v.SetDefault("server.body_limit_mb", 1)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.graceful_shutdown_delay", "5s")
	v.SetDefault("server.secret_key", "")

	v.SetDefault("translation.provider", "google")
	v.SetDefault("translation.max_retries", 3)
	v.SetDefault("translation.initial_delay", "1s")
	v.SetDefault("translation.default_source", "en")
	v.SetDefault("translation.default_destination", "es")

	v.SetDefault("speech.provider", "google")

	v.SetDefault("audio.storage", "local")
	v.SetDefault("audio.public_prefix", "/static/audio")
	v.SetDefault("audio.local.directory", "static/audio")
	v.SetDefault("audio.ttl", "24h")
	v.SetDefault("audio.sweep_interval", "15m")
	v.SetDefault("audio.encryption_key", "")
	v.SetDefault("audio.s3.bucket", "")
	v.SetDefault("audio.s3.prefix", "")
	v.SetDefault("audio.s3.region", "")
	v.SetDefault("audio.s3.endpoint", "")
	v.SetDefault("audio.s3.use_path_style", false)

	v.SetDefault("providers.google.translate_url", "https://translate.googleapis.com/translate_a/single")
	v.SetDefault("providers.google.tts_url", "https://translate.google.com/translate_tts")
	v.SetDefault("providers.google.timeout", "10s")
	v.SetDefault("providers.google.user_agent", "Mozilla/5.0 (compatible; voice-translator/1.0)")
	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "")
	v.SetDefault("providers.openai.organization", "")
	v.SetDefault("providers.openai.translation_model", "gpt-4o-mini")
	v.SetDefault("providers.openai.speech_model", "gpt-4o-mini-tts")
	v.SetDefault("providers.openai.voice", "alloy")
	v.SetDefault("providers.bedrock.region", "")
	v.SetDefault("providers.bedrock.profile", "")
	v.SetDefault("providers.bedrock.access_key_id", "")
	v.SetDefault("providers.bedrock.secret_access_key", "")
	v.SetDefault("providers.bedrock.session_token", "")
	v.SetDefault("providers.bedrock.model_id", "")

	v.SetDefault("observability.enable_otlp", false)
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.otlp_endpoint", "http://localhost:4317")

	v.SetDefault("health.check_interval", "60s")
	v.SetDefault("health.timeout", "5s")
}

// Masked returns a copy suitable for printing.
func (c Config) Masked() Config {
	out := c
	out.Providers = c.Providers.Masked()
	return out
}

func normalizeSlug(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func timeStringToDurationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			return d, nil
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		default:
			return nil, fmt.Errorf("cannot decode %T into time.Duration", data)
		}
	}
}
