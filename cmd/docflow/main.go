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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// Load .env when present; flags and real env vars take precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	app := &cli.App{
		Name:  "docflow",
		Usage: "Document ingestion pipeline: parse, chunk, embed, and search documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"DOCFLOW_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest documents into the pipeline",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"DOCFLOW_DB"},
					},
					&cli.StringFlag{
						Name:     "files",
						Aliases:  []string{"f"},
						Usage:    `Documents to ingest as JSON: [{"id":"...","name":"...","path":"..."}]`,
						Required: true,
						EnvVars:  []string{"DOCFLOW_FILES"},
					},
					&cli.StringFlag{
						Name:    "host",
						Usage:   "OpenAI-compatible service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"DOCFLOW_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   "nomic-embed-text",
						EnvVars: []string{"DOCFLOW_EMBEDDING_MODEL"},
					},
					&cli.StringFlag{
						Name:    "describer-model",
						Usage:   "Vision model used to describe embedded images",
						Value:   "llava",
						EnvVars: []string{"DOCFLOW_DESCRIBER_MODEL"},
					},
					&cli.IntFlag{
						Name:    "chunk-size",
						Usage:   "Maximum chunk size in characters",
						Value:   3000,
						EnvVars: []string{"DOCFLOW_CHUNK_SIZE"},
					},
					&cli.IntFlag{
						Name:    "chunk-overlap",
						Usage:   "Characters shared between consecutive chunks",
						Value:   500,
						EnvVars: []string{"DOCFLOW_CHUNK_OVERLAP"},
					},
					&cli.StringFlag{
						Name:    "chunk-boundary",
						Usage:   "Chunk boundary preference (markdown, paragraph, sentence)",
						Value:   "markdown",
						EnvVars: []string{"DOCFLOW_CHUNK_BOUNDARY"},
					},
					&cli.BoolFlag{
						Name:    "upload-markdown",
						Usage:   "Store the parsed markdown artifact in the object store",
						EnvVars: []string{"DOCFLOW_UPLOAD_MARKDOWN"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Concurrent document pipelines",
						Value:   4,
						EnvVars: []string{"DOCFLOW_WORKERS"},
					},
					&cli.BoolFlag{
						Name:  "mock-ai",
						Usage: "Use deterministic mock AI services (testing only)",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "List documents and their pipeline status",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"DOCFLOW_DB"},
					},
				},
			},
			{
				Name:   "query",
				Usage:  "Search stored chunks by semantic similarity",
				Action: queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"DOCFLOW_DB"},
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
					&cli.StringFlag{
						Name:    "host",
						Usage:   "OpenAI-compatible service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"DOCFLOW_HOST"},
					},
					&cli.StringFlag{
						Name:    "embedding-model",
						Usage:   "Embedding model name",
						Value:   "nomic-embed-text",
						EnvVars: []string{"DOCFLOW_EMBEDDING_MODEL"},
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Re-embed all stored chunks with a new embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
						EnvVars:  []string{"DOCFLOW_DB"},
					},
					&cli.StringFlag{
						Name:    "host",
						Usage:   "OpenAI-compatible service host URL",
						Value:   "http://localhost:11434/v1",
						EnvVars: []string{"DOCFLOW_HOST"},
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
						EnvVars:  []string{"DOCFLOW_EMBEDDING_MODEL"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
