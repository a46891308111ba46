package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Dosada05/bracket-engine/config"
	"github.com/Dosada05/bracket-engine/db"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/Dosada05/bracket-engine/storage"
)

// Small maintenance tool around the engine storage: dump the whole dataset
// as JSON or load one back.
//
//	bracket-engine export > dump.json
//	bracket-engine import dump.json
func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("failed to close database connection: %v", err)
		}
	}()

	store, err := storage.NewSQL(conn)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	manager := services.NewManager(store)

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		dataset, err := manager.Export(ctx)
		if err != nil {
			log.Fatalf("failed to export dataset: %v", err)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(dataset); err != nil {
			log.Fatalf("failed to encode dataset: %v", err)
		}

	case "import":
		if len(os.Args) < 3 {
			usage()
		}
		raw, err := os.ReadFile(os.Args[2])
		if err != nil {
			log.Fatalf("failed to read dataset file: %v", err)
		}
		var dataset storage.Dataset
		if err := json.Unmarshal(raw, &dataset); err != nil {
			log.Fatalf("failed to decode dataset: %v", err)
		}
		if err := manager.Import(ctx, &dataset); err != nil {
			log.Fatalf("failed to import dataset: %v", err)
		}
		log.Printf("imported %d stages, %d matches", len(dataset.Stages), len(dataset.Matches))

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bracket-engine export | import <file>")
	os.Exit(2)
}
