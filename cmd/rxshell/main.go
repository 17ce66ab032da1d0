package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnatoleLucet/rx"
	"github.com/peterh/liner"
)

const (
	prompt      = "rx> "
	historyFile = ".rxshell_history"
	recentSize  = 10
)

type line struct {
	n    int
	text string
}

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println("rxshell: every line goes through Filter, Map and Scan. :recent, :count, :quit")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	input := rx.NewSubject[string]()
	count := rx.NewBehaviorSubject(0)
	recent := rx.NewReplaySubject[string](rx.WithBufferSize(recentSize))

	lines := rx.Pipe2(
		input.AsObservable().Pipe(
			rx.Map(strings.TrimSpace),
			rx.Filter(func(s string) bool { return s != "" }),
		),
		rx.Scan(func(acc line, s string) line { return line{n: acc.n + 1, text: s} }, line{}),
		rx.Map(func(l line) string { return fmt.Sprintf("[%d] %s", l.n, strings.ToUpper(l.text)) }),
	)

	input.Subscribe(recent)
	sub := lines.SubscribeFunc(
		func(s string) {
			fmt.Println(s)
			count.Next(count.Value() + 1)
		},
		func(err error) { fmt.Fprintln(os.Stderr, "error:", err) },
		func() { fmt.Println("bye") },
	)
	defer sub.Unsubscribe()

	for {
		text, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			input.Complete()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}

		switch strings.TrimSpace(text) {
		case ":quit":
			input.Complete()
		case ":count":
			n, _ := count.GetValue()
			fmt.Println(n)
			continue
		case ":recent":
			// replays synchronously, then stops listening
			recent.SubscribeFunc(func(s string) { fmt.Println(" ", s) }, nil, nil).Unsubscribe()
			continue
		default:
			ln.AppendHistory(text)
			input.Next(text)
			continue
		}
		break
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}
