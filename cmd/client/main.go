package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tuannm99/simpledb/client"
	"github.com/tuannm99/simpledb/internal/shell"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".simpledb_client_history"
	}
	return filepath.Join(home, ".simpledb_client_history")
}

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:8866", "server address")
		timeout  = flag.Duration("timeout", 3*time.Second, "dial timeout")
		rwTime   = flag.Duration("rw-timeout", 30*time.Second, "per command timeout")
		histPath = flag.String("history", defaultHistoryPath(), "history file path")
		oneShot  = flag.String("c", "", "run one command and exit")
	)
	flag.Parse()

	cli, err := client.Dial(*addr, *timeout, client.WithRWTimeout(*rwTime))
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cli.Close() }()

	// one-shot mode
	if strings.TrimSpace(*oneShot) != "" {
		r, err := cli.Exec(*oneShot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		shell.Print(os.Stdout, r)
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "simpledb> ",
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	fmt.Printf("connected to %s\n", *addr)
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
		if strings.TrimSpace(line) == "" {
			continue
		}

		r, err := cli.Exec(line)
		if errors.Is(err, client.ErrClosed) {
			fmt.Println("connection closed")
			return
		}
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
