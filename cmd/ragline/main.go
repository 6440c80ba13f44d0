// Copyright 2025 Quellwerk
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/quellwerk/ragline/ai"
	"github.com/quellwerk/ragline/ai/openai"
	"github.com/quellwerk/ragline/chat"
	"github.com/quellwerk/ragline/core"
	"github.com/quellwerk/ragline/ingestion"
	"github.com/quellwerk/ragline/stage"
	"github.com/quellwerk/ragline/storage"
	"github.com/quellwerk/ragline/storage/badger"
	"github.com/quellwerk/ragline/storage/milvus"
)

func main() {
	app := &cli.App{
		Name:  "ragline",
		Usage: "Document ingestion and retrieval pipeline for PDF collections",
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
				Name:      "ingest",
				Usage:     "Ingest a PDF document into the vector store",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: joinFlags(serviceFlags(), aiFlags(), milvusFlags(), []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the BadgerDB run log directory",
						Value:   "./ragline-runs",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent enrichment workers (0 = half the CPUs)",
					},
					&cli.DurationFlag{
						Name:  "deadline",
						Usage: "Wall-clock budget for the whole document",
						Value: 10 * time.Minute,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 2 * time.Second,
					},
				}),
			},
			{
				Name:   "chat",
				Usage:  "Ask questions about the ingested documents",
				Action: chatCommand,
				Flags: joinFlags(aiFlags(), milvusFlags(), []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks retrieved per question",
						Value:   5,
					},
				}),
			},
			{
				Name:   "runs",
				Usage:  "List recent ingestion runs",
				Action: runsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the BadgerDB run log directory",
						Value:   "./ragline-runs",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of runs to list",
						Value:   20,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Drop the vector store collection",
				Action: clearCommand,
				Flags:  milvusFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "detect-url",
			Usage: "Language detection service endpoint",
			Value: "http://127.0.0.1:8000/detect-language",
		},
		&cli.StringFlag{
			Name:  "structure-url",
			Usage: "PDF structuring service endpoint",
			Value: "http://127.0.0.1:8001/structure-pdf/",
		},
		&cli.StringFlag{
			Name:  "annotate-url",
			Usage: "Linguistic annotation service endpoint",
			Value: "http://127.0.0.1:8002/process/",
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "llm-host",
			Usage: "OpenAI-compatible host for generation and embeddings",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "llm-model",
			Usage: "Generation model name",
			Value: "deepseek-r1:8b",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
	}
}

func milvusFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "milvus",
			Usage: "Milvus proxy address (host:port)",
			Value: "localhost:19530",
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Milvus collection name",
			Value: "rag_documents",
		},
	}
}

func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, group := range groups {
		flags = append(flags, group...)
	}
	return flags
}

func newAIConfig(c *cli.Context) *ai.Config {
	cfg := ai.NewConfig(ai.WithHost(c.String("llm-host")))
	if model := c.String("llm-model"); model != "" {
		ai.WithGenerationModel(model)(cfg)
	}
	if model := c.String("embedding-model"); model != "" {
		ai.WithEmbeddingModel(model)(cfg)
	}
	return cfg
}

func newVectorStore(c *cli.Context) (storage.VectorStore, error) {
	return milvus.NewStore(c.Context, &milvus.Config{
		Address:    c.String("milvus"),
		Collection: c.String("collection"),
	})
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	ctx := context.Background()

	aiConfig := newAIConfig(c)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	client, err := stage.NewClient(
		stage.WithMaxAttempts(c.Int("max-retries")),
		stage.WithBaseDelay(c.Duration("retry-delay")),
	)
	if err != nil {
		return fmt.Errorf("failed to create stage client: %w", err)
	}

	store, err := newVectorStore(c)
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	defer store.Close(ctx)

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer backend.Close()

	runs, err := badger.NewRunLogRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create run log repository: %w", err)
	}
	defer runs.Close()

	opts := []ingestion.Option{
		ingestion.WithDeadline(c.Duration("deadline")),
		ingestion.WithRetryPolicy(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingestion.WithWorkers(workers))
	}

	pipeline, err := ingestion.NewPipeline(client, stage.Endpoints{
		DetectLanguage: c.String("detect-url"),
		Structure:      c.String("structure-url"),
		Annotate:       c.String("annotate-url"),
	}, provider, store, runs, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	run, err := pipeline.IngestDocument(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run %s failed at %s: %v\n", run.ID, run.FailedStage, err)
		return cli.Exit("", 1)
	}

	stored := len(run.Chunks) - run.PartialFailures()
	fmt.Printf("Run %s: %s, %d chunks stored\n", run.ID, run.State, stored)

	if dropped := run.PartialFailures(); dropped > 0 {
		fmt.Printf("%d chunks dropped:\n", dropped)
		for _, outcome := range run.Chunks {
			if outcome.Status == core.ChunkPartialFailed {
				fmt.Printf("  chunk %d (%s): %s\n", outcome.Ordinal, outcome.ChunkID.Hex(), outcome.Reason)
			}
		}
		return cli.Exit("", 2)
	}
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := newAIConfig(c)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	store, err := newVectorStore(c)
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	defer store.Close(ctx)

	bot, err := chat.New(provider, store, chat.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to create chat bot: %w", err)
	}

	count, err := store.Count(ctx)
	if err == nil {
		fmt.Printf("Chatting over %d chunks. Type 'exit' to leave.\n", count)
	}

	return bot.Run(ctx, os.Stdin, os.Stdout)
}

func runsCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRunLogRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create run log repository: %w", err)
	}
	defer repo.Close()

	runs, err := repo.List(ctx, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("%s  %s  %-18s %s",
			run.StartedAt.Format(time.RFC3339), run.ID, run.State, run.DocumentID)
		if run.State == core.StageFailed {
			line += fmt.Sprintf("  (failed at %s: %s)", run.FailedStage, run.Error)
		} else if dropped := run.PartialFailures(); dropped > 0 {
			line += fmt.Sprintf("  (%d chunks dropped)", dropped)
		}
		fmt.Println(line)
	}
	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	store, err := newVectorStore(c)
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	defer store.Close(ctx)

	if err := store.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	fmt.Println("Collection dropped.")
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
