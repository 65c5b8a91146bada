// Package shell implements a line-oriented command interpreter over a single
// Position: load positions, play and take back moves, list legal moves, and
// run perft.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesslib/internal/board"
	"github.com/hailam/chesslib/internal/movegen"
	"github.com/hailam/chesslib/internal/position"
	"github.com/hailam/chesslib/internal/storage"
)

const defaultPerftDepth = 5

// maxPerftDepth bounds interactive perft requests.
const maxPerftDepth = 12

// Shell holds the position being explored and where output goes.
type Shell struct {
	position *position.Position
	out      io.Writer

	// Optional perft result cache
	cache *storage.Storage
	runID string
}

// New creates a shell on the starting position.
func New(out io.Writer) *Shell {
	return &Shell{
		position: position.Start(),
		out:      out,
	}
}

// UseCache makes perft consult and fill cache. Results are recorded under a
// fresh run id.
func (s *Shell) UseCache(cache *storage.Storage) {
	s.cache = cache
	s.runID = storage.NewRunID()
}

// Position returns the current position.
func (s *Shell) Position() *position.Position {
	return s.position
}

// Prompt returns a prompt showing the side to move and the move number.
func (s *Shell) Prompt() string {
	side := "w"
	if s.position.SideToMove() == board.Black {
		side = "b"
	}
	return fmt.Sprintf("chesslib [%s %d]> ", side, s.position.FullMoveNumber())
}

// Run reads commands from r until EOF or quit.
func (s *Shell) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if !s.Execute(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line. It returns false when the shell should exit.
func (s *Shell) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		s.handleHelp()
	case "position":
		s.handlePosition(args)
	case "fen":
		s.handleFEN(args)
	case "move":
		s.handleMove(args)
	case "undo":
		s.handleUndo(args)
	case "moves":
		s.handleMoves()
	case "perft":
		s.handlePerft(args)
	case "divide":
		s.handleDivide(args)
	case "cache":
		s.handleCache(args)
	case "status":
		s.handleStatus()
	case "history":
		s.handleHistory()
	case "d":
		fmt.Fprint(s.out, s.position.String())
	default:
		s.errorf("unknown command %q (try help)", cmd)
	}
	return true
}

func (s *Shell) errorf(format string, args ...any) {
	fmt.Fprintf(s.out, "error: "+format+"\n", args...)
}

func (s *Shell) handleHelp() {
	fmt.Fprintln(s.out, "commands:")
	fmt.Fprintln(s.out, "  position startpos|fen <fen> [moves <m>...]")
	fmt.Fprintln(s.out, "  fen [<fen>]        print or set the position")
	fmt.Fprintln(s.out, "  move <m>...        play moves in UCI notation")
	fmt.Fprintln(s.out, "  undo [n]           take back n moves (default 1)")
	fmt.Fprintln(s.out, "  moves              list legal moves")
	fmt.Fprintln(s.out, "  perft [depth]      count leaf nodes")
	fmt.Fprintln(s.out, "  divide <depth>     perft per root move")
	fmt.Fprintln(s.out, "  cache [all]        list cached perft results (this position or all)")
	fmt.Fprintln(s.out, "  cache purge [run]  drop a run's cached results (default: this session)")
	fmt.Fprintln(s.out, "  status             game status")
	fmt.Fprintln(s.out, "  history            moves played since the position was set")
	fmt.Fprintln(s.out, "  d                  show the board")
	fmt.Fprintln(s.out, "  quit")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (s *Shell) handlePosition(args []string) {
	if len(args) == 0 {
		s.errorf("position needs startpos or fen")
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = position.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		s.errorf("position needs startpos or fen")
		return
	}

	if !s.setFEN(fen) {
		return
	}
	if movesAt < len(args) {
		s.handleMove(args[movesAt+1:])
	}
}

func (s *Shell) setFEN(fen string) bool {
	pos, err := position.FromFEN(fen)
	if err != nil {
		s.errorf("%v", err)
		return false
	}
	s.position = pos
	return true
}

func (s *Shell) handleFEN(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, s.position.FEN())
		return
	}
	s.setFEN(strings.Join(args, " "))
}

// handleMove plays moves in order and stops at the first one that does not
// parse or is illegal.
func (s *Shell) handleMove(args []string) {
	if len(args) == 0 {
		s.errorf("move needs at least one move")
		return
	}
	for _, text := range args {
		m, err := s.position.ParseMove(text)
		if err != nil {
			s.errorf("%v", err)
			return
		}
		s.position.MakeMove(m)
	}
}

func (s *Shell) handleUndo(args []string) {
	n := 1
	if len(args) > 0 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n < 1 {
			s.errorf("bad undo count %q", args[0])
			return
		}
	}
	if n > s.position.Ply() {
		s.errorf("only %d moves to undo", s.position.Ply())
		return
	}
	for i := 0; i < n; i++ {
		s.position.UndoMove()
	}
}

func (s *Shell) handleMoves() {
	moves := movegen.Legal(s.position).Strings(s.position.MoveString)
	fmt.Fprintf(s.out, "%d moves: %s\n", len(moves), strings.Join(moves, " "))
}

func (s *Shell) parseDepth(args []string, def int) (int, bool) {
	if len(args) == 0 {
		if def == 0 {
			s.errorf("depth required")
			return 0, false
		}
		return def, true
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 || depth > maxPerftDepth {
		s.errorf("depth must be between 1 and %d", maxPerftDepth)
		return 0, false
	}
	return depth, true
}

func (s *Shell) handlePerft(args []string) {
	depth, ok := s.parseDepth(args, defaultPerftDepth)
	if !ok {
		return
	}
	fen := s.position.FEN()

	if s.cache != nil {
		r, found, err := s.cache.Get(fen, depth)
		if err != nil {
			s.errorf("perft cache: %v", err)
		} else if found {
			fmt.Fprintf(s.out, "Nodes: %s (cached %s)\n", humanize.Comma(int64(r.Nodes)), humanize.Time(r.Recorded))
			return
		}
	}

	start := time.Now()
	nodes := movegen.Perft(s.position, depth)
	elapsed := time.Since(start)

	fmt.Fprintf(s.out, "Nodes: %s\n", humanize.Comma(int64(nodes)))
	fmt.Fprintf(s.out, "Time: %v\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(s.out, "NPS: %s\n", humanize.SIWithDigits(nps, 1, "nps"))
	}

	if s.cache != nil {
		err := s.cache.Put(&storage.Result{
			RunID:   s.runID,
			FEN:     fen,
			Depth:   depth,
			Nodes:   nodes,
			Elapsed: elapsed,
		})
		if err != nil {
			s.errorf("perft cache: %v", err)
		}
	}
}

func (s *Shell) handleDivide(args []string) {
	depth, ok := s.parseDepth(args, 0)
	if !ok {
		return
	}

	entries, total := movegen.Divide(s.position, depth)
	for _, e := range entries {
		fmt.Fprintf(s.out, "%s: %d\n", e.Text, e.Nodes)
	}
	fmt.Fprintf(s.out, "\nMoves: %d\nNodes: %s\n", len(entries), humanize.Comma(int64(total)))
}

func (s *Shell) handleCache(args []string) {
	if s.cache == nil {
		s.errorf("no perft cache open")
		return
	}

	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "":
		results, err := s.cache.Results(s.position.FEN())
		if err != nil {
			s.errorf("perft cache: %v", err)
			return
		}
		if len(results) == 0 {
			fmt.Fprintln(s.out, "no cached results for this position")
		}
		for _, r := range results {
			fmt.Fprintf(s.out, "depth %d: %s (%s)\n", r.Depth, humanize.Comma(int64(r.Nodes)), humanize.Time(r.Recorded))
		}

	case "all":
		results, err := s.cache.All()
		if err != nil {
			s.errorf("perft cache: %v", err)
			return
		}
		for _, r := range results {
			fmt.Fprintf(s.out, "%s depth %d: %s\n", r.FEN, r.Depth, humanize.Comma(int64(r.Nodes)))
		}
		fmt.Fprintf(s.out, "%d cached results\n", len(results))

	case "purge":
		runID := s.runID
		if len(args) > 1 {
			runID = args[1]
		}
		n, err := s.cache.DeleteRun(runID)
		if err != nil {
			s.errorf("perft cache: %v", err)
			return
		}
		fmt.Fprintf(s.out, "removed %d results\n", n)

	default:
		s.errorf("unknown cache command %q", sub)
	}
}

func (s *Shell) handleStatus() {
	status := movegen.GetStatus(s.position)
	fmt.Fprintln(s.out, status)
	if !status.IsOver() && s.position.InCheck() {
		fmt.Fprintln(s.out, "check")
	}
}

func (s *Shell) handleHistory() {
	var parts []string
	replay := s.position.Clone()
	history := s.position.History()
	for range history {
		replay.UndoMove()
	}
	for _, m := range history {
		parts = append(parts, replay.MoveString(m))
		replay.MakeMove(m)
	}
	fmt.Fprintln(s.out, strings.Join(parts, " "))
}
