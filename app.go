package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"pdfchat/internal/config"
	"pdfchat/internal/extract"
	"pdfchat/internal/logging"
	"pdfchat/internal/redis"
	"pdfchat/internal/service/ai"
	"pdfchat/internal/service/assistant"
	"pdfchat/internal/storage"
	"pdfchat/internal/uploads"
)

// app holds the wired collaborators shared by serve and summarize.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	store     uploads.Store
	parser    parser.Parser
	assistant *assistant.Service
	closers   []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("PDFCHAT_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := &app{
		cfg:    cfg,
		logger: logging.New(cfg.BasicConfig.LogLevel, cfg.BasicConfig.LogFormat, os.Stderr),
	}

	if err := a.openStore(); err != nil {
		a.Close()
		return nil, err
	}

	a.parser, err = extract.NewParser(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create parser: %w", err)
	}

	completer, err := ai.NewCompleter(ctx, cfg.Completion)
	switch {
	case errors.Is(err, ai.ErrMissingCredential):
		// chat routes answer 502 until the credential is provided
		a.logger.Warn().Str("provider", cfg.Completion.Provider).Msgf("%s is not set", cfg.Completion.CredentialEnv())
		completer = nil
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("create completer: %w", err)
	}

	a.assistant, err = assistant.NewService(a.store, a.parser, completer, assistant.Options{
		MissingCredential: cfg.Completion.CredentialEnv() + " is not set",
		Logger:            a.logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init assistant service: %w", err)
	}
	return a, nil
}

func (a *app) openStore() error {
	backend := a.cfg.BasicConfig.UploadBackend
	ttl := time.Duration(a.cfg.BasicConfig.UploadTTLMinutes) * time.Minute

	switch backend {
	case "redis":
		rdb, err := redis.NewRedisClient(a.cfg.Redis)
		if err != nil {
			return fmt.Errorf("create redis client: %w", err)
		}
		a.closers = append(a.closers, rdb)
		store, err := uploads.NewRedisStore(rdb, ttl)
		if err != nil {
			return err
		}
		a.store = store
	case "sqlite3", "mysql":
		db, err := storage.Open(backend, a.cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, db)
		if err := storage.Migrate(db, backend); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		store, err := uploads.NewSQLStore(db, backend)
		if err != nil {
			return err
		}
		a.store = store
	default:
		store, err := uploads.NewDiskStore(a.cfg.BasicConfig.UploadDir)
		if err != nil {
			return fmt.Errorf("create upload dir: %w", err)
		}
		a.store = store
	}
	a.logger.Debug().Str("backend", backend).Msg("upload store ready")
	return nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close")
		}
	}
	a.closers = nil
}
