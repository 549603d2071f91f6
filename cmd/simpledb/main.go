package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/tuannm99/simpledb/internal"
	"github.com/tuannm99/simpledb/internal/engine"
	"github.com/tuannm99/simpledb/internal/shell"
	"github.com/tuannm99/simpledb/server/simpledbwire"
)

const prompt = "simpledb> "

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".simpledb_history"
	}
	return filepath.Join(home, ".simpledb_history")
}

func main() {
	var (
		cfgPath     = flag.String("config", "", "config file (yaml)")
		catalogFile = flag.String("catalog", "", "catalog file, overrides storage.catalog_file")
		listen      = flag.String("listen", "", "serve commands over tcp on this address instead of a prompt")
		histPath    = flag.String("history", defaultHistoryPath(), "history file path")
		oneShot     = flag.String("c", "", "run one command and exit")
	)
	flag.Parse()

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *catalogFile != "" {
		cfg.Storage.CatalogFile = *catalogFile
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	db, err := engine.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *listen != "" {
		if err := simpledbwire.Run(ctx, *listen, db); err != nil {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sh := shell.New(db)
	if *oneShot != "" {
		r, err := sh.Exec(ctx, *oneShot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		shell.Print(os.Stdout, r)
		return
	}

	// The prompt handles ^C itself.
	stop()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("%d tables loaded\n", len(db.Tables()))
	fmt.Println("type \\help for help")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}
		r, err := sh.Exec(context.Background(), line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		shell.Print(os.Stdout, r)
		if r.Quit {
			return
		}
	}
}
