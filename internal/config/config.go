package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the file Load looks for inside the config directory.
const ConfigFileName = "eventmap.cfg.json"

// MapConfig holds projection and drawing settings
type MapConfig struct {
	Width             float64    `json:"width" mapstructure:"width"`
	Height            float64    `json:"height" mapstructure:"height"`
	Center            [2]float64 `json:"center" mapstructure:"center"`
	Scale             float64    `json:"scale" mapstructure:"scale"`
	ResetViewOnFilter bool       `json:"resetViewOnFilter" mapstructure:"resetViewOnFilter"`
	ShowMissing       bool       `json:"showMissing" mapstructure:"showMissing"`

	ResetViewDuration time.Duration
	TooltipFadeIn     time.Duration
	TooltipFadeOut    time.Duration
}

// EventsConfig selects where event rows come from
type EventsConfig struct {
	Type string `json:"type" mapstructure:"type"` // csv, sqlite or postgres
	Path string `json:"path" mapstructure:"path"`
}

// DataConfig holds data source settings
type DataConfig struct {
	Boundaries string       `json:"boundaries" mapstructure:"boundaries"`
	Events     EventsConfig `json:"events" mapstructure:"events"`
	JitterSeed int64        `json:"jitterSeed" mapstructure:"jitterSeed"`
	EuropeOnly bool         `json:"europeOnly" mapstructure:"europeOnly"`
}

// DBConfig holds postgres connection settings
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	AllowAllOrigins bool
	ShutdownTimeout time.Duration
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	BatchTimeout   time.Duration
	MetricInterval time.Duration
	Endpoint       string
	Insecure       bool
}

// LoggingConfig holds log sink settings
type LoggingConfig struct {
	Level          string
	LogsDir        string
	GraylogEnabled bool
	GraylogAddress string
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./eventmaplogs")

	viper.SetDefault("map.width", 1280)
	viper.SetDefault("map.height", 800)
	viper.SetDefault("map.centerLongitude", 20)
	viper.SetDefault("map.centerLatitude", 50)
	viper.SetDefault("map.scale", 500)
	viper.SetDefault("map.resetViewOnFilter", true)
	viper.SetDefault("map.showMissing", false)
	viper.SetDefault("map.resetViewDuration", "750ms")
	viper.SetDefault("map.tooltipFadeIn", "200ms")
	viper.SetDefault("map.tooltipFadeOut", "500ms")

	viper.SetDefault("data.boundaries", "geojson/europe.geojson")
	viper.SetDefault("data.events.type", "csv")
	viper.SetDefault("data.events.path", "data/updated_data6.csv")
	viper.SetDefault("data.jitterSeed", 0)
	viper.SetDefault("data.europeOnly", true)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "eventmap")

	viper.SetDefault("filter.countryMode", "multi")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.allowAllOrigins", false)
	viper.SetDefault("server.shutdownTimeout", "10s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "eventmap")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.metricInterval", "30s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
// Defaults stay in effect when the file cannot be read.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetMapConfig returns the projection and drawing settings.
func GetMapConfig() MapConfig {
	return MapConfig{
		Width:             viper.GetFloat64("map.width"),
		Height:            viper.GetFloat64("map.height"),
		Center:            [2]float64{viper.GetFloat64("map.centerLongitude"), viper.GetFloat64("map.centerLatitude")},
		Scale:             viper.GetFloat64("map.scale"),
		ResetViewOnFilter: viper.GetBool("map.resetViewOnFilter"),
		ShowMissing:       viper.GetBool("map.showMissing"),
		ResetViewDuration: viper.GetDuration("map.resetViewDuration"),
		TooltipFadeIn:     viper.GetDuration("map.tooltipFadeIn"),
		TooltipFadeOut:    viper.GetDuration("map.tooltipFadeOut"),
	}
}

// GetDataConfig returns the data source settings.
func GetDataConfig() DataConfig {
	return DataConfig{
		Boundaries: viper.GetString("data.boundaries"),
		Events: EventsConfig{
			Type: viper.GetString("data.events.type"),
			Path: viper.GetString("data.events.path"),
		},
		JitterSeed: viper.GetInt64("data.jitterSeed"),
		EuropeOnly: viper.GetBool("data.europeOnly"),
	}
}

// GetDBConfig returns the postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetCountryMode returns the configured country selection mode.
func GetCountryMode() string {
	return viper.GetString("filter.countryMode")
}

// GetServerConfig returns the HTTP server settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            viper.GetString("server.addr"),
		AllowAllOrigins: viper.GetBool("server.allowAllOrigins"),
		ShutdownTimeout: viper.GetDuration("server.shutdownTimeout"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		BatchTimeout:   viper.GetDuration("otel.batchTimeout"),
		MetricInterval: viper.GetDuration("otel.metricInterval"),
		Endpoint:       viper.GetString("otel.endpoint"),
		Insecure:       viper.GetBool("otel.insecure"),
	}
}

// GetLoggingConfig returns the log sink settings.
func GetLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:          viper.GetString("logLevel"),
		LogsDir:        viper.GetString("logsDir"),
		GraylogEnabled: viper.GetBool("graylog.enabled"),
		GraylogAddress: viper.GetString("graylog.address"),
	}
}
