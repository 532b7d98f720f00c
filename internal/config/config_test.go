package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"map": { "width": 1024, "scale": 650 },
		"filter": { "countryMode": "single" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 1024, viper.GetInt("map.width"))
	assert.Equal(t, 650, viper.GetInt("map.scale"))
	assert.Equal(t, "single", GetCountryMode())
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./eventmaplogs", viper.GetString("logsDir"))
	assert.Equal(t, "csv", viper.GetString("data.events.type"))
	assert.Equal(t, "geojson/europe.geojson", viper.GetString("data.boundaries"))
	assert.Equal(t, true, viper.GetBool("data.europeOnly"))
	assert.Equal(t, "multi", viper.GetString("filter.countryMode"))
	assert.Equal(t, ":8080", viper.GetString("server.addr"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "eventmap", viper.GetString("otel.serviceName"))
	assert.Equal(t, 30*time.Second, GetOTelConfig().MetricInterval)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// defaults still apply
	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, 500.0, GetMapConfig().Scale)
}

func TestGetMapConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetMapConfig()
	assert.Equal(t, 1280.0, cfg.Width)
	assert.Equal(t, 800.0, cfg.Height)
	assert.Equal(t, [2]float64{20, 50}, cfg.Center)
	assert.Equal(t, 500.0, cfg.Scale)
	assert.True(t, cfg.ResetViewOnFilter)
	assert.False(t, cfg.ShowMissing)
	assert.Equal(t, 750*time.Millisecond, cfg.ResetViewDuration)
	assert.Equal(t, 200*time.Millisecond, cfg.TooltipFadeIn)
	assert.Equal(t, 500*time.Millisecond, cfg.TooltipFadeOut)
}

func TestGetMapConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"map": {
			"centerLongitude": 10,
			"centerLatitude": 45.5,
			"resetViewOnFilter": false,
			"showMissing": true,
			"resetViewDuration": "1s"
		}
	}`)))

	cfg := GetMapConfig()
	assert.Equal(t, [2]float64{10, 45.5}, cfg.Center)
	assert.False(t, cfg.ResetViewOnFilter)
	assert.True(t, cfg.ShowMissing)
	assert.Equal(t, time.Second, cfg.ResetViewDuration)
}

func TestGetDataConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"data": {
			"boundaries": "/srv/europe.geojson",
			"events": { "type": "sqlite", "path": "/srv/events.db" },
			"jitterSeed": 42,
			"europeOnly": false
		}
	}`)))

	dc := GetDataConfig()
	assert.Equal(t, "/srv/europe.geojson", dc.Boundaries)
	assert.Equal(t, "sqlite", dc.Events.Type)
	assert.Equal(t, "/srv/events.db", dc.Events.Path)
	assert.Equal(t, int64(42), dc.JitterSeed)
	assert.False(t, dc.EuropeOnly)
}

func TestGetServerConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	sc := GetServerConfig()
	assert.Equal(t, ":8080", sc.Addr)
	assert.False(t, sc.AllowAllOrigins)
	assert.Equal(t, 10*time.Second, sc.ShutdownTimeout)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-map",
			"batchTimeout": "30s",
			"metricInterval": "1m",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-map", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, time.Minute, oc.MetricInterval)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetDBAndLoggingConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"db": { "host": "10.0.0.1", "port": "5433" },
		"graylog": { "enabled": true, "address": "graylog:12201" }
	}`)))

	db := GetDBConfig()
	assert.Equal(t, "10.0.0.1", db.Host)
	assert.Equal(t, "5433", db.Port)
	assert.Equal(t, "eventmap", db.Database)

	lc := GetLoggingConfig()
	assert.Equal(t, "info", lc.Level)
	assert.True(t, lc.GraylogEnabled)
	assert.Equal(t, "graylog:12201", lc.GraylogAddress)
}
