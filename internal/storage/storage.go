package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyStats      = "stats"
	keyGamePrefix = "game/"
)

// Winner values stored in a GameRecord.
const (
	WinnerNone  = ""
	WinnerWhite = "white"
	WinnerBlack = "black"
)

// StatusOngoing is the status of a game that has not ended.
const StatusOngoing = "ongoing"

// GameRecord is everything needed to rebuild and verify one game.
type GameRecord struct {
	ID         string `json:"id"`
	Placement  string `json:"placement"`
	SideToMove string `json:"side_to_move"` // "w" or "b" at the start position

	// Moves in coordinate form ("e2e4", "e7e8q").
	Moves []string `json:"moves"`

	// Hashes is the session's position history, initial position first.
	Hashes []uint64 `json:"hashes"`

	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished reports whether the record holds a completed game.
func (r *GameRecord) Finished() bool {
	return r.Status != "" && r.Status != StatusOngoing
}

// GameStats stores aggregate results over recorded games
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	DrawsByReason map[string]int `json:"draws_by_reason"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		DrawsByReason: make(map[string]int),
	}
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db     *badger.DB
	logger *log.Logger
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	s, err := Open(dbDir)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[STORAGE] Database directory: %s", dbDir)
	return s, nil
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db, logger: log.Default()}, nil
}

// SetLogger routes storage logging to l; nil silences it.
func (s *Storage) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	s.logger = l
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(keyGamePrefix + id)
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, "/ \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// SaveGame stores a game record, replacing any record with the same ID.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}

	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame loads the record stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns the IDs of all stored games in ascending order.
func (s *Storage) ListGames() ([]string, error) {
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyGamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			ids = append(ids, strings.TrimPrefix(string(key), keyGamePrefix))
		}
		return nil
	})

	sort.Strings(ids)
	return ids, err
}

// DeleteGame removes the record stored under id.
func (s *Storage) DeleteGame(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrGameNotFound, id)
			}
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyStats), data)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	if stats.DrawsByReason == nil {
		stats.DrawsByReason = make(map[string]int)
	}

	return stats, err
}

// RecordResult folds a finished game into the statistics.
func (s *Storage) RecordResult(rec *GameRecord) error {
	if !rec.Finished() {
		return fmt.Errorf("%w: %s", ErrGameInProgress, rec.ID)
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlies += len(rec.Moves)
	if len(rec.Moves) > stats.LongestGame {
		stats.LongestGame = len(rec.Moves)
	}

	switch rec.Winner {
	case WinnerWhite:
		stats.WhiteWins++
	case WinnerBlack:
		stats.BlackWins++
	default:
		stats.Draws++
		stats.DrawsByReason[rec.Status]++
	}

	s.logger.Printf("[STORAGE] Recorded %s: %s (%d plies)", rec.ID, rec.Status, len(rec.Moves))
	return s.SaveStats(stats)
}
