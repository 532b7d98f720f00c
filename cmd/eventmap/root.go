package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/compmap/eventmap/internal/config"
	"github.com/compmap/eventmap/internal/logging"
	intOtel "github.com/compmap/eventmap/internal/otel"
)

// AppName names log files, the OTel service and the GELF facility.
const AppName = "eventmap"

var (
	configDir string
	logToFile bool

	sessionStart = time.Now()

	env *runtimeEnv
)

var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Interactive map of competition events across Europe",
	Long: `eventmap loads competition events and country boundaries, places a
jittered marker per event on a Mercator map of Europe and lets you filter
by year and country. The map can be rendered to SVG, exported as GeoJSON
or served over HTTP with a live WebSocket stream.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		var err error
		env, err = setupRuntime()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing "+config.ConfigFileName)
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "also write logs to a file in logsDir")
}

// runtimeEnv is the ambient stack shared by every command.
type runtimeEnv struct {
	logs    *logging.SlogManager
	logger  *slog.Logger
	zlog    zerolog.Logger
	otel    *intOtel.Provider
	logFile *os.File
	closers []io.Closer
}

func setupRuntime() (*runtimeEnv, error) {
	e := &runtimeEnv{logs: logging.NewSlogManager()}

	// console-only logger until the config is read
	e.logs.Setup(logging.Options{Level: "info"})
	e.logger = e.logs.Logger()

	if err := config.Load(configDir); err != nil {
		e.logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		e.logger.Info("Loaded config", "dir", configDir)
	}

	logCfg := config.GetLoggingConfig()

	if logToFile {
		f, err := logging.OpenLogFile(logCfg.LogsDir, AppName, sessionStart)
		if err != nil {
			return nil, err
		}
		e.logFile = f
		e.closers = append(e.closers, f)
		e.logger.Info("Begin logging in logs directory", "path", f.Name())
	}

	otelCfg := config.GetOTelConfig()
	var logProvider *sdklog.LoggerProvider
	if otelCfg.Enabled {
		var otelWriter io.Writer
		if e.logFile != nil {
			otelWriter = e.logFile
		}
		p, err := intOtel.New(context.Background(), intOtel.Config{
			Enabled:        true,
			ServiceName:    otelCfg.ServiceName,
			BatchTimeout:   otelCfg.BatchTimeout,
			MetricInterval: otelCfg.MetricInterval,
			LogWriter:      otelWriter,
			Endpoint:       otelCfg.Endpoint,
			Insecure:       otelCfg.Insecure,
		})
		if err != nil {
			e.logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			p.Install()
			e.otel = p
			logProvider = p.LoggerProvider()
			e.logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	opts := logging.Options{
		Level:    logCfg.Level,
		Provider: logProvider,
		Attrs: func() []slog.Attr {
			return []slog.Attr{slog.Duration("uptime", time.Since(sessionStart).Round(time.Millisecond))}
		},
	}
	if e.logFile != nil {
		opts.File = e.logFile
	}
	if logCfg.GraylogEnabled {
		w, err := logging.NewGraylogWriter(logCfg.GraylogAddress)
		if err != nil {
			e.logger.Error("Failed to set up Graylog sink", "error", err)
		} else {
			opts.Graylog = w
		}
	}

	e.logs.Setup(opts)
	e.logger = e.logs.Logger()

	var zfile io.Writer
	if e.logFile != nil {
		zfile = e.logFile
	}
	e.zlog = logging.NewZerolog(os.Stderr, zfile, logCfg.Level)

	return e, nil
}

func (e *runtimeEnv) close() {
	ctx, cancel := contextWithTimeout(5 * time.Second)
	defer cancel()

	if err := e.logs.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "log flush failed: %v\n", err)
	}
	if e.otel != nil {
		if err := e.otel.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "otel shutdown failed: %v\n", err)
		}
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}
