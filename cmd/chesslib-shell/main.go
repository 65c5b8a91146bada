// Command chesslib-shell is an interactive explorer for positions: set up a
// FEN, play and take back moves, list legal moves and run perft.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/hailam/chesslib/internal/shell"
	"github.com/hailam/chesslib/internal/storage"
)

var (
	fen      = flag.String("fen", "", "initial position (default: standard start)")
	useCache = flag.Bool("cache", false, "reuse and record perft results in the perft cache")
	cacheDir = flag.String("cache-dir", "", "perft cache directory (default: user data directory)")
)

func main() {
	flag.Parse()

	sh := shell.New(os.Stdout)
	if *fen != "" {
		sh.Execute("fen " + *fen)
	}

	if *useCache {
		dir, err := storage.GetCacheDir(*cacheDir)
		if err != nil {
			log.Fatal("perft cache: ", err)
		}
		cache, err := storage.Open(dir)
		if err != nil {
			log.Fatal(err)
		}
		defer cache.Close()
		sh.UseCache(cache)
	}

	// Piped input: plain line scanning, no prompt.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		if err := sh.Run(os.Stdin); err != nil {
			log.Print(err)
		}
		return
	}

	if err := interactive(sh); err != nil {
		log.Print(err)
	}
}

func interactive(sh *shell.Shell) error {
	historyFile := ""
	if dataDir, err := storage.GetDataDir(); err == nil {
		historyFile = filepath.Join(dataDir, "shell_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.Prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("chesslib shell, type 'help' for commands")

	for {
		rl.SetPrompt(sh.Prompt())

		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				return nil
			}
			continue
		}
		if err != nil {
			return err
		}

		if !sh.Execute(line) {
			return nil
		}
	}
}
