// Package main provides a tool to seed the database with sample boards.
//
// Items get offline metadata unless -resolve is set, in which case each URL
// goes through the configured metadata tiers.
//
// Usage:
//
//	DATA_PATH=~/ResearchQueue/data go run ./cmd/seed
//	go run ./cmd/seed -resolve -metadata-env staging
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/researchqueue/researchqueue-server/internal/logger"
	"github.com/researchqueue/researchqueue-server/internal/metadata"
	"github.com/researchqueue/researchqueue-server/internal/metadata/urlinfo"
	"github.com/researchqueue/researchqueue-server/internal/service"
	"github.com/researchqueue/researchqueue-server/internal/store"
)

var (
	dataPath    = flag.String("data-path", "", "Base path for persisted data (default: $DATA_PATH or ~/ResearchQueue/data)")
	resolve     = flag.Bool("resolve", false, "Resolve metadata through the metadata service")
	metadataEnv = flag.String("metadata-env", "staging", "Metadata service environment used with -resolve")
)

type seedBoard struct {
	name        string
	description string
	urls        []string
}

var seedBoards = []seedBoard{
	{
		name:        "Papers",
		description: "Machine learning reading list",
		urls: []string{
			"https://arxiv.org/abs/1706.03762",
			"https://arxiv.org/abs/1810.04805",
		},
	},
	{
		name:        "Talks",
		description: "Conference talks to watch",
		urls: []string{
			"https://www.youtube.com/watch?v=kCc8FmEb1nY",
		},
	},
	{
		name: "Tools",
		urls: []string{
			"https://go.dev/doc/effective_go",
			"https://github.com/blevesearch/bleve",
		},
	},
}

func main() {
	flag.Parse()

	path := *dataPath
	if path == "" {
		path = os.Getenv("DATA_PATH")
	}
	if path == "" {
		path = os.ExpandEnv("$HOME/ResearchQueue/data")
	}
	dbPath := filepath.Join(path, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	log := logger.New(logger.Config{Environment: "development"})

	kv, err := store.OpenBadger(dbPath, nil)
	if err != nil {
		log.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	var tiers []metadata.Tier
	if *resolve {
		hc := &http.Client{Timeout: metadata.DefaultTierTimeout}
		client := urlinfo.New(urlinfo.Environment(*metadataEnv), log.Logger, urlinfo.WithHTTPClient(hc))
		tiers = append(tiers,
			metadata.NewAPITier(client),
			metadata.NewDirectTier(metadata.DefaultFallbackURL, hc, log.Logger),
		)
	}
	resolver := metadata.NewResolver(metadata.Options{Logger: log.Logger}, tiers...)

	ctx := context.Background()
	boards := service.NewBoardService(resolver, store.NewPersister(kv, log.Logger), log.Logger)
	boards.Load(ctx)

	start := time.Now()
	created := 0
	for _, sb := range seedBoards {
		board, err := boards.CreateBoard(ctx, sb.name, sb.description)
		if err != nil {
			fatal(err)
		}
		for _, u := range sb.urls {
			item, err := boards.CreateItem(ctx, u, []string{board.ID})
			if err != nil {
				fatal(err)
			}
			created++
			fmt.Printf("  [%s] %s (%s)\n", board.Name, item.Title, item.Type)
		}
	}

	stats := boards.Stats()
	fmt.Printf("\nSeeded %d items in %s. Collection now has %d boards and %d items.\n",
		created, time.Since(start).Round(time.Millisecond), stats.Boards, stats.Items)
}

func fatal(err error) {
	log.Fatalf("Seeding failed: %v", err)
}
