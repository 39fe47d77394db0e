// Package console implements a line-oriented text protocol for playing and
// inspecting games.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

// ErrNoStorage is returned by archive commands when no database is open.
var ErrNoStorage = errors.New("storage disabled")

// maxPerftDepth bounds the perft command so a typo cannot hang the loop.
const maxPerftDepth = 6

// Console reads commands from in and writes responses to out.
type Console struct {
	in    io.Reader
	out   io.Writer
	store *storage.Storage
	opts  []game.Option

	session *game.Session
}

// New creates a console. store may be nil, which disables save/load/list.
// opts are applied to every session the console creates.
func New(in io.Reader, out io.Writer, store *storage.Storage, opts ...game.Option) (*Console, error) {
	session, err := game.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Console{
		in:      in,
		out:     out,
		store:   store,
		opts:    opts,
		session: session,
	}, nil
}

// Start replaces the current game with one from placement.
func (c *Console) Start(placement string) error {
	s, err := game.NewFromPlacement(placement, c.opts...)
	if err != nil {
		return err
	}
	c.session = s
	return nil
}

// Session returns the current game.
func (c *Console) Session() *game.Session {
	return c.session
}

// Run starts the main loop. It returns at end of input or on "quit"; command
// errors are reported on out and never stop the loop.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		if cmd == "quit" {
			return nil
		}
		if err := c.dispatch(cmd, args); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (c *Console) dispatch(cmd string, args []string) error {
	switch cmd {
	case "new":
		return c.handleNew(args)
	case "side":
		return c.handleSide(args)
	case "d":
		fmt.Fprintln(c.out, c.session.Position().String())
		return nil
	case "moves":
		return c.handleMoves(args)
	case "move":
		return c.handleMove(args)
	case "status":
		return c.handleStatus()
	case "perft":
		return c.handlePerft(args)
	case "save":
		return c.handleSave(args)
	case "load":
		return c.handleLoad(args)
	case "delete":
		return c.handleDelete(args)
	case "list":
		return c.handleList()
	case "stats":
		return c.handleStats()
	case "help":
		c.handleHelp()
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// handleNew starts a new game from the standard setup or a placement string.
// Formats:
//   - new
//   - new <placement>
func (c *Console) handleNew(args []string) error {
	placement := board.StartPlacement
	if len(args) > 0 {
		placement = args[0]
	}
	if err := c.Start(placement); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "ok")
	return nil
}

func (c *Console) handleSide(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: side w|b")
	}
	side, err := game.ParseSide(args[0])
	if err != nil {
		return err
	}
	if err := c.session.SetSideToMove(side); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "side %v\n", side)
	return nil
}

func (c *Console) handleMoves(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: moves <square>")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}
	moves, err := c.session.LegalMoves(sq)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		fmt.Fprintln(c.out, "(none)")
		return nil
	}

	list := make([]string, len(moves))
	for i, m := range moves {
		list[i] = m.String()
	}
	sort.Strings(list)
	fmt.Fprintln(c.out, strings.Join(list, " "))
	return nil
}

func (c *Console) handleMove(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: move <from><to>[promotion] ...")
	}
	for _, text := range args {
		o, err := c.session.PlayString(text)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "played %s\n", text)
		if o.Over() {
			fmt.Fprintln(c.out, resultLine(o))
		}
	}
	return nil
}

func (c *Console) handleStatus() error {
	pos := c.session.Position()
	side := pos.SideToMove()
	check, err := pos.IsKingInCheck(side)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "side: %v\n", side)
	fmt.Fprintf(c.out, "ply: %d\n", len(c.session.Moves()))
	fmt.Fprintf(c.out, "check: %v\n", check)
	fmt.Fprintf(c.out, "castling: %s\n", pos.Flags())
	fmt.Fprintf(c.out, "halfmove: %d\n", pos.Flags().HalfMoveClock)
	fmt.Fprintf(c.out, "status: %s\n", c.session.Outcome().Status)
	return nil
}

func resultLine(o board.Outcome) string {
	if o.Status == board.Checkmate {
		return fmt.Sprintf("result: checkmate, %v wins", o.Winner())
	}
	return fmt.Sprintf("result: draw by %s", o.Status)
}

// handlePerft runs a perft test.
func (c *Console) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		var err error
		depth, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("perft depth: %w", err)
		}
	}
	if depth < 1 || depth > maxPerftDepth {
		return fmt.Errorf("perft depth must be between 1 and %d", maxPerftDepth)
	}

	start := time.Now()
	nodes, err := c.session.Position().Perft(depth)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(c.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(c.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(c.out, "NPS: %.0f\n", nps)
	}
	return nil
}

// handleSave archives the current game. A finished game is counted in the
// statistics the first time it is saved as finished.
func (c *Console) handleSave(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: save <id>")
	}

	rec := c.session.Record(args[0])

	counted := false
	prev, err := c.store.LoadGame(rec.ID)
	switch {
	case err == nil:
		rec.CreatedAt = prev.CreatedAt
		counted = prev.Finished()
	case !errors.Is(err, storage.ErrGameNotFound):
		return err
	}

	if err := c.store.SaveGame(rec); err != nil {
		return err
	}
	if rec.Finished() && !counted {
		if err := c.store.RecordResult(rec); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "saved %s (%d moves)\n", rec.ID, len(rec.Moves))
	return nil
}

func (c *Console) handleLoad(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: load <id>")
	}

	rec, err := c.store.LoadGame(args[0])
	if err != nil {
		return err
	}
	s, err := game.Replay(rec, c.opts...)
	if err != nil {
		return err
	}
	c.session = s
	fmt.Fprintf(c.out, "loaded %s (%d moves)\n", rec.ID, len(rec.Moves))
	return nil
}

func (c *Console) handleDelete(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}
	if err := c.store.DeleteGame(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted %s\n", args[0])
	return nil
}

func (c *Console) handleList() error {
	if c.store == nil {
		return ErrNoStorage
	}
	ids, err := c.store.ListGames()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(c.out, "(no games)")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(c.out, id)
	}
	return nil
}

func (c *Console) handleStats() error {
	if c.store == nil {
		return ErrNoStorage
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "games: %d white: %d black: %d draws: %d\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws)
	return nil
}

func (c *Console) handleHelp() {
	fmt.Fprintln(c.out, "commands:")
	fmt.Fprintln(c.out, "  new [placement]    start a game")
	fmt.Fprintln(c.out, "  side w|b           set the side to move before the first move")
	fmt.Fprintln(c.out, "  d                  print the board")
	fmt.Fprintln(c.out, "  moves <square>     list legal moves from a square")
	fmt.Fprintln(c.out, "  move <e2e4> ...    play moves")
	fmt.Fprintln(c.out, "  status             show side, check and game status")
	fmt.Fprintln(c.out, "  perft <depth>      count move-tree leaves")
	fmt.Fprintln(c.out, "  save|load|delete <id>, list, stats")
	fmt.Fprintln(c.out, "  quit")
}
