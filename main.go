// RiceDoctor serves rice leaf disease diagnoses over HTTP: an uploaded
// leaf image is classified by an ONNX model (or a remote vision endpoint)
// and the top condition is returned together with its treatment advisory.
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ricedoctor/classifier"
	"ricedoctor/core"
	"ricedoctor/core/validation"
	"ricedoctor/diagnose"
	"ricedoctor/knowledge"
	"ricedoctor/logging"
	"ricedoctor/metrics"
	"ricedoctor/server"
	"ricedoctor/shutdown"
)

// Version is stamped at build time via -ldflags.
var Version = "0.1.0"

// activeManager lets the Windows service wrapper trigger the same
// shutdown path the signal handler uses.
var activeManager atomic.Pointer[shutdown.Manager]

func main() {
	if HandleServiceCommand(os.Args[1:]) {
		return
	}
	if ranAsService, err := RunAsService(); ranAsService {
		if err != nil {
			fmt.Fprintf(os.Stderr, "service error: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	os.Exit(runApp())
}

// runApp wires the full pipeline and blocks until shutdown. It returns
// the process exit code.
func runApp() int {
	if err := godotenv.Load(); err != nil {
		// Logger is not up yet.
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		printConfigError(err)
		return core.ExitCodeError
	}

	isDev := core.ParseBoolEnv("DEV_MODE", false)
	logger := logging.NewLogger(
		logging.ParseLogLevel(cfg.LogLevel, zapcore.InfoLevel),
		cfg.LogFile,
		isDev,
	)
	defer logger.Sync()

	kb, err := knowledge.NewBase()
	if err != nil {
		logger.Error("embedded knowledge base is broken", zap.Error(err))
		return core.ExitCodeError
	}

	result := validation.NewValidationSuite(cfg, kb).Validate()
	if !result.Success {
		for _, verr := range result.GetErrors() {
			logger.Error("startup validation failed", zap.Error(verr))
		}
		return core.ExitCodeError
	}

	logger.Info("configuration loaded",
		zap.String("backend", cfg.InferenceBackend),
		zap.String("model", cfg.ModelPath),
		zap.String("staging_dir", cfg.StagingDir),
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Bool("auth_enabled", cfg.WebUIPassword != ""),
		zap.Bool("dev_mode", isDev),
	)

	store := metrics.NewStore(metrics.StoreConfig{
		HistoryCapacity: cfg.HistorySize,
		Version:         Version,
	}, time.Now())

	loader := classifier.NewLoader(classifier.LoaderConfig{
		ModelPath:    cfg.ModelPath,
		MetadataPath: cfg.ModelMetadataPath,
		Backend:      cfg.InferenceBackend,
		Remote: classifier.RemoteConfig{
			BaseURL: cfg.RemoteVisionURL,
			APIKey:  cfg.RemoteVisionKey,
			Model:   cfg.RemoteVisionModel,
		},
		RunStartupTest: cfg.RunStartupTest,
		Logger:         logger,
	})

	// Load eagerly: a process that cannot classify should fail at
	// startup, not on the first request.
	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.DiagnoseTimeout)
	if _, err := loader.Acquire(loadCtx); err != nil {
		cancel()
		logger.Error("model load failed", zap.Error(err))
		return core.ExitCodeError
	}
	cancel()
	store.SetModelLoaded(true)

	engine := classifier.NewEngine(logger)
	orchestrator := diagnose.NewOrchestrator(loader, engine, kb, store, cfg.StagingDir, logger)

	auth, err := server.NewBasicAuth(cfg.WebUIPassword, logger)
	if err != nil {
		logger.Error("auth setup failed", zap.Error(err))
		return core.ExitCodeError
	}

	mgr := shutdown.NewManager(logger, shutdown.WithTimeout(cfg.ShutdownTimeout))
	activeManager.Store(mgr)
	defer activeManager.Store((*shutdown.Manager)(nil))

	api := server.NewAPI(orchestrator, kb, store, mgr.Tracker(), server.APIConfig{
		MaxImageBytes:   cfg.MaxImageBytes,
		DiagnoseTimeout: cfg.DiagnoseTimeout,
		DefaultLimit:    20,
		MaxLimit:        cfg.HistorySize,
	}, logger)

	serverConfig := server.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	serverConfig.ShutdownTimeout = cfg.ShutdownTimeout
	srv := server.NewServer(serverConfig, api, auth, logger)

	mgr.Register("http_server", 10, srv.Shutdown)
	mgr.Register("model_handle", 30, func(ctx context.Context) error {
		store.SetModelLoaded(false)
		return loader.Close(ctx)
	})
	mgr.Register("staging_sweep", 40, shutdown.CleanupStaging(logger, cfg.StagingDir))
	mgr.Start()

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("http server failed", zap.Error(err))
			mgr.Shutdown(core.ExitCodeError)
		}
	}()

	logger.Info("ricedoctor ready",
		zap.String("version", Version),
		zap.String("addr", srv.Addr()))

	mgr.Wait()
	return mgr.ExitCode()
}

// printConfigError shows a ConfigError with its suggested action before
// the logger exists.
func printConfigError(err error) {
	if cfgErr, ok := core.IsConfigError(err); ok {
		fmt.Fprintf(os.Stderr, "Configuration error [%s]: %s\n", cfgErr.Code, cfgErr.Message)
		if cfgErr.Action != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", cfgErr.Action)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
}
