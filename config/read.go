package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pulseai/pulsedesk/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	// Allow env vars to override config values.
	// e.g. PULSEDESK_LOG_SERVICE_BASE_URL overrides log_service.base_url
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The config file is optional; defaults plus env vars are enough to boot.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

// setDefaults registers every key so AutomaticEnv can override keys that are
// absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors.enabled", false)
	v.SetDefault("server.cors.allow_origins", []string{"*"})
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.requests_per_window", 60)
	v.SetDefault("server.rate_limit.window_seconds", 30)

	v.SetDefault("log_service.base_url", constants.DefaultLogServiceURL)
	v.SetDefault("log_service.timeout_seconds", 10)
	v.SetDefault("log_service.legacy_prescription_create", false)

	v.SetDefault("clinician.name", constants.DefaultClinician)
	v.SetDefault("clinician.title", constants.DefaultClinicianTitle)
	v.SetDefault("clinician.practice", constants.DefaultPractice)
	v.SetDefault("clinician.phone_region", constants.DefaultPhoneRegion)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from", "")
	v.SetDefault("email.smtp.host", "")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.username", "")
	v.SetDefault("email.smtp.password", "")
	v.SetDefault("email.smtp.use_tls", true)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("sms.enabled", false)
	v.SetDefault("sms.smsir.api_key", "")
	v.SetDefault("sms.smsir.secret_key", "")
	v.SetDefault("sms.smsir.prescription_template_id", "")
	v.SetDefault("sms.smsir.appointment_template_id", "")

	v.SetDefault("nats.url", "")

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", constants.AppName)
	v.SetDefault("observability.service_version", "dev")
	v.SetDefault("observability.tracing.enabled", false)
	v.SetDefault("observability.tracing.otlp_endpoint", "")
	v.SetDefault("observability.tracing.otlp_insecure", true)
	v.SetDefault("observability.tracing.sampling_rate", 1.0)
	v.SetDefault("observability.metrics.enabled", false)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output.stdout", true)
	v.SetDefault("logging.output.file.enabled", false)
	v.SetDefault("logging.output.file.path", "logs/pulsedesk.log")
	v.SetDefault("logging.output.file.max_size_mb", 50)
	v.SetDefault("logging.output.file.max_backups", 5)
	v.SetDefault("logging.output.file.max_age_days", 28)
	v.SetDefault("logging.output.file.compress", true)
	v.SetDefault("logging.output.loki.enabled", false)
	v.SetDefault("logging.output.loki.endpoint", "")
	v.SetDefault("logging.output.loki.tenant_id", "")
	v.SetDefault("logging.output.loki.username", "")
	v.SetDefault("logging.output.loki.password", "")
}
