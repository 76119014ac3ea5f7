// Viewer dumps the message archive of a charette as a table, without
// touching the running server. Opens BadgerDB read-only so it can run
// next to a live process.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Netflix/go-env"
	"github.com/bytedance/sonic"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"charette-lab/repositories"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
}

func main() {
	// 1. Load config
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	charetteID := flag.String("charette", "", "Only show messages of this charette id")
	limit := flag.Int("limit", 200, "Maximum number of rows")
	flag.Parse()

	// 2. Open Badger in Read-Only mode
	// Note: BypassLockGuard allows opening if another process holds the lock
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer db.Close()

	prefix := repositories.ArchivePrefix
	if *charetteID != "" {
		prefix += *charetteID + ":"
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Charette", "Room", "At", "Author", "Role", "Text"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if rows >= *limit {
				break
			}
			item := it.Item()
			err := item.Value(func(value []byte) error {
				var msg repositories.ArchivedMessage
				if err := sonic.Unmarshal(value, &msg); err != nil {
					return err
				}
				table.Append([]string{
					shorten(msg.Charette, 8),
					msg.Room,
					msg.At.Format("15:04:05"),
					msg.Author,
					msg.Role,
					shorten(strings.ReplaceAll(msg.Content, "\n", " "), 60),
				})
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan archive: %v", err)
	}

	color.New(color.BgBlack, color.FgGreen).Println(fmt.Sprintf("🗂  Message archive (%d rows)", rows))
	table.Render()
}

func shorten(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
