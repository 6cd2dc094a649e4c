// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/poiesic/docproc"
	"github.com/poiesic/docproc/ai"
	"github.com/poiesic/docproc/api"
	"github.com/urfave/cli/v2"
)

const version = "0.3.0"

func main() {
	app := &cli.App{
		Name:    "docproc",
		Usage:   "Document parsing, chunking and retrieval service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP service",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"DOCPROC_ADDR"},
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Aliases: []string{"d"},
						Usage:   "Directory for on-disk state",
						Value:   "./data",
						EnvVars: []string{"DOCPROC_DATA_DIR"},
					},
					&cli.BoolFlag{
						Name:  "in-memory",
						Usage: "Keep the document registry in memory (dev mode)",
					},
					&cli.StringFlag{
						Name:    "embedding-host",
						Usage:   "Embedding service host URL (OpenAI-compatible)",
						EnvVars: []string{"DOCPROC_EMBEDDING_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						EnvVars: []string{"DOCPROC_EMBEDDING_MODEL"},
					},
					&cli.StringFlag{
						Name:    "completion-host",
						Usage:   "Completion service host URL (OpenAI-compatible)",
						EnvVars: []string{"DOCPROC_COMPLETION_HOST"},
					},
					&cli.StringFlag{
						Name:    "completion-model",
						Usage:   "Completion model name",
						EnvVars: []string{"DOCPROC_COMPLETION_MODEL"},
					},
					&cli.StringFlag{
						Name:    "qdrant-url",
						Usage:   "Qdrant base URL; empty selects the in-process vector store",
						EnvVars: []string{"DOCPROC_QDRANT_URL"},
					},
					&cli.StringFlag{
						Name:    "qdrant-api-key",
						Usage:   "Qdrant API key",
						EnvVars: []string{"DOCPROC_QDRANT_API_KEY"},
					},
					&cli.StringFlag{
						Name:    "qdrant-collection",
						Usage:   "Qdrant collection name",
						Value:   "docproc_chunks",
						EnvVars: []string{"DOCPROC_QDRANT_COLLECTION"},
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Background parse worker count",
						Value: 8,
					},
					&cli.DurationFlag{
						Name:  "embed-cache-ttl",
						Usage: "Embedding cache entry lifetime",
						Value: 12 * time.Hour,
					},
					&cli.StringFlag{
						Name:  "max-upload",
						Usage: "Maximum request body size (echo body-limit syntax, e.g. 50M)",
						Value: "50M",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	var aiConfig *ai.Config
	if c.String("embedding-host") != "" || c.String("completion-host") != "" {
		aiConfig = ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithCompletionHost(c.String("completion-host")),
			ai.WithCompletionModel(c.String("completion-model")),
		)
		if err := aiConfig.Validate(); err != nil {
			return fmt.Errorf("invalid AI configuration: %w", err)
		}
	}

	service, err := docproc.New(&docproc.Config{
		DataDir:          c.String("data-dir"),
		InMemoryRegistry: c.Bool("in-memory"),
		AI:               aiConfig,
		QdrantURL:        c.String("qdrant-url"),
		QdrantAPIKey:     c.String("qdrant-api-key"),
		QdrantCollection: c.String("qdrant-collection"),
		PoolSize:         c.Int("pool-size"),
		EmbedCacheTTL:    c.Duration("embed-cache-ttl"),
	})
	if err != nil {
		return fmt.Errorf("failed to construct service: %w", err)
	}
	defer service.Close()

	e := echo.New()
	api.SetupMiddleware(e)
	e.Use(middleware.BodyLimit(c.String("max-upload")))
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Service: service,
		Version: version,
	}))

	// Serve until interrupted, then drain in-flight requests.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(c.String("addr"))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
