// Chessrules - a chess rules engine driven from a text console.
package main

import (
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/hailam/chessrules/internal/console"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	dbDir     = flag.String("db", getenv("CHESSRULES_DB", ""), "database directory (default: the user data directory)")
	memory    = flag.Bool("memory", false, "keep saved games in memory only")
	noStore   = flag.Bool("nostore", false, "disable saving and loading games")
	placement = flag.String("placement", getenv("CHESSRULES_PLACEMENT", ""), "starting piece placement")
	debug     = flag.Bool("debug", getenvBool("CHESSRULES_DEBUG"), "verify board consistency after every move")
)

func main() {
	flag.Parse()

	store, err := openStorage()
	if err != nil {
		log.Fatal("could not open storage: ", err)
	}
	if store != nil {
		defer store.Close()
	}

	c, err := console.New(os.Stdin, os.Stdout, store, game.WithDebug(*debug))
	if err != nil {
		log.Fatal(err)
	}
	if *placement != "" {
		if err := c.Start(*placement); err != nil {
			log.Fatal(err)
		}
	}

	if err := c.Run(); err != nil {
		log.Fatal(err)
	}
}

func openStorage() (*storage.Storage, error) {
	switch {
	case *noStore:
		return nil, nil
	case *memory:
		return storage.OpenInMemory()
	case *dbDir != "":
		return storage.Open(*dbDir)
	}
	return storage.NewStorage()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
