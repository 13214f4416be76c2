// Package main provides a read-only inspection tool for the saved board record.
//
// Usage:
//
//	DATA_PATH=~/ResearchQueue/data go run ./cmd/dbinspect
//	go run ./cmd/dbinspect -backend sqlite -raw
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/researchqueue/researchqueue-server/internal/config"
	"github.com/researchqueue/researchqueue-server/internal/domain"
	"github.com/researchqueue/researchqueue-server/internal/store"
	"github.com/researchqueue/researchqueue-server/internal/store/sqlite"
	"github.com/researchqueue/researchqueue-server/internal/view"
)

var (
	dataPath = flag.String("data-path", "", "Base path for persisted data (default: $DATA_PATH or ~/ResearchQueue/data)")
	backend  = flag.String("backend", config.BackendBadger, "Storage backend (badger, sqlite)")
	raw      = flag.Bool("raw", false, "Print the stored record as indented JSON and exit")
)

func main() {
	flag.Parse()

	path := *dataPath
	if path == "" {
		path = os.Getenv("DATA_PATH")
	}
	if path == "" {
		path = os.ExpandEnv("$HOME/ResearchQueue/data")
	}

	kv, err := openKV(path, *backend)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	persister := store.NewPersister(kv, nil)

	data, err := persister.Raw(ctx)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", store.BoardsKey, err)
	}
	if data == nil {
		fmt.Printf("No %q record in %s\n", store.BoardsKey, path)
		return
	}

	if *raw {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			log.Fatalf("Record is not valid JSON: %v", err)
		}
		out, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(out))
		return
	}

	var header struct {
		Version int    `json:"version"`
		SavedAt string `json:"saved_at"`
	}
	_ = json.Unmarshal(data, &header) // legacy records are bare arrays

	boards, err := persister.LoadErr(ctx)
	if err != nil {
		if store.IsMalformed(err) {
			log.Fatalf("Stored record is unreadable: %v", err)
		}
		log.Fatalf("Failed to load boards: %v", err)
	}

	fmt.Println("=== Board Record ===")
	fmt.Printf("Key:      %s\n", store.BoardsKey)
	fmt.Printf("Backend:  %s\n", *backend)
	fmt.Printf("Size:     %d bytes\n", len(data))
	fmt.Printf("Version:  %d\n", header.Version)
	if header.SavedAt != "" {
		fmt.Printf("Saved at: %s\n", header.SavedAt)
	}
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOARD\tID\tITEMS\tCREATED")
	for _, b := range boards {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", b.Name, b.ID, len(b.Items), b.CreatedAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
	fmt.Println()

	byType := make(map[domain.ItemType]int)
	unique := 0
	for it := range view.AllItems(boards) {
		unique++
		byType[it.Type]++
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Boards: %d\n", len(boards))
	fmt.Printf("Unique items: %s\n", view.CountLabel(unique))
	for _, t := range []domain.ItemType{
		domain.ItemTypeArticle, domain.ItemTypeWebsite, domain.ItemTypeYouTube,
		domain.ItemTypeInstagram, domain.ItemTypeOther,
	} {
		if n := byType[t]; n > 0 {
			fmt.Printf("  %-10s %d\n", t, n)
		}
	}
}

func openKV(path, backend string) (store.KV, error) {
	switch backend {
	case config.BackendSQLite:
		return sqlite.Open(filepath.Join(path, "researchqueue.db"), nil)
	case config.BackendBadger:
		return store.OpenBadgerReadOnly(filepath.Join(path, "db"), nil)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}
