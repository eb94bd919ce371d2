package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"task-board/internal/board"
	"task-board/internal/client"
	"task-board/internal/dto"
	"task-board/internal/logger"
	"task-board/internal/model"
)

const usage = `usage:
  boardctl [flags] board <projectId>
  boardctl [flags] move <projectId> <taskId> <columnId> <index>
`

// errNotSynced 表示移動已在本地套用但未寫入伺服器
var errNotSynced = errors.New("move not synced")

type boardAPI interface {
	board.API
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
}

var (
	newClient = func(baseURL string) boardAPI { return client.New(baseURL) }
	newLogger = logger.New
	exitFunc  = os.Exit
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parsePolicy(s string) (board.Policy, error) {
	switch strings.ToLower(s) {
	case "revert":
		return board.Revert, nil
	case "mark-unsynced", "unsynced":
		return board.MarkUnsynced, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("boardctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	apiURL := fs.String("api", envOr("BOARD_API_URL", "http://localhost:4000"), "API base URL")
	email := fs.String("email", envOr("BOARD_EMAIL", "demo@example.com"), "login email")
	password := fs.String("password", envOr("BOARD_PASSWORD", "demo1234"), "login password")
	policyName := fs.String("policy", "revert", "failed move handling: revert or mark-unsynced")
	timeout := fs.Duration("timeout", 10*time.Second, "per request timeout")
	level := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	policy, err := parsePolicy(*policyName)
	if err != nil {
		return err
	}

	lg := newLogger(false, *level, "boardctl")
	defer func() { _ = lg.Sync() }()

	api := newClient(*apiURL)
	if _, err := api.Login(ctx, *email, *password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	opts := board.Options{Policy: policy, Timeout: *timeout, Log: lg}

	switch rest[0] {
	case "board":
		if len(rest) != 2 {
			fs.Usage()
			return errors.New("board needs <projectId>")
		}
		b, err := board.Open(ctx, api, rest[1], opts)
		if err != nil {
			return err
		}
		defer b.Close()
		printBoard(stdout, b.Snapshot(), nil)
		return nil

	case "move":
		if len(rest) != 5 {
			fs.Usage()
			return errors.New("move needs <projectId> <taskId> <columnId> <index>")
		}
		index, err := strconv.Atoi(rest[4])
		if err != nil {
			return fmt.Errorf("invalid index %q", rest[4])
		}
		return move(ctx, api, opts, rest[1], rest[2], rest[3], index)

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func move(ctx context.Context, api boardAPI, opts board.Options, projectID, taskID, columnID string, index int) error {
	var result *board.Result
	opts.Settled = func(r board.Result) { result = &r }

	b, err := board.Open(ctx, api, projectID, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.MoveTask(taskID, columnID, index); err != nil {
		return err
	}
	b.Wait()

	printBoard(stdout, b.Snapshot(), b.Unsynced())
	switch {
	case result == nil:
		fmt.Fprintln(stdout, "task already in place, nothing sent")
	case result.Err != nil:
		fmt.Fprintf(stdout, "move not synced (%s): %v\n", opts.Policy, result.Err)
		return errNotSynced
	default:
		fmt.Fprintln(stdout, "synced")
	}
	return nil
}

func printBoard(w io.Writer, b *model.Board, unsynced []string) {
	flagged := make(map[string]bool, len(unsynced))
	for _, id := range unsynced {
		flagged[id] = true
	}
	for _, col := range b.Columns {
		fmt.Fprintf(w, "%s [%s]\n", col.Name, col.ID)
		for _, t := range col.Tasks {
			mark := " "
			if flagged[t.ID] {
				mark = "!"
			}
			fmt.Fprintf(w, " %s %s  %s\n", mark, t.ID, t.Title)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := run(ctx, os.Args[1:])
	stop()
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	default:
		log.Print(err)
		exitFunc(1)
	}
}
