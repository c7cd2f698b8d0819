// promptboard is the terminal client for the prompt classification contest.
//
// Usage:
//
//	promptboard final              podium and final standings, waits for scoring
//	promptboard results            live leaderboard, refreshed every 30s
//	promptboard login --name NAME  sign in (password from --password or prompt)
//	promptboard submit < prompt.txt
//	promptboard questions          the fixed test questions
//	promptboard logout
//	promptboard version
//
// Output modes (auto-detected):
//
//	terminal  styled output, interactive screen when stdin and stdout are a TTY
//	plain     no ANSI, default when piped
//	json      structured JSON for automation
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dkoosis/promptboard/internal/api"
	"github.com/dkoosis/promptboard/internal/config"
	"github.com/dkoosis/promptboard/internal/logging"
	"github.com/dkoosis/promptboard/internal/session"
	"github.com/dkoosis/promptboard/internal/version"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

const usage = `Usage: promptboard <command> [flags]

Commands:
  final      show the podium once final scores are in
  results    show the live leaderboard
  submit     submit a classification prompt
  login      sign in for submissions
  logout     forget the stored credentials
  questions  list the test questions
  version    print build information

Run 'promptboard <command> -h' for command flags.
`

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "final":
		return runFinal(ctx, rest, stdin, stdout, stderr)
	case "results":
		return runResults(ctx, rest, stdin, stdout, stderr)
	case "submit":
		return runSubmit(ctx, rest, stdin, stdout, stderr)
	case "login":
		return runLogin(ctx, rest, stdin, stdout, stderr)
	case "logout":
		return runLogout(rest, stdout, stderr)
	case "questions":
		return runQuestions(rest, stdout, stderr)
	case "version", "--version":
		fmt.Fprint(stdout, version.String())
		return exitOK
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "promptboard: unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}
}

// commonFlags are accepted by every command that talks to the API or
// renders output.
type commonFlags struct {
	apiURL      string
	theme       string
	format      string
	noColor     bool
	debug       bool
	timeout     time.Duration
	sessionFile string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.apiURL, "api-url", "", "Contest API base URL")
	fs.StringVar(&c.theme, "theme", "", "Theme: default, orca, mono")
	fs.StringVar(&c.format, "format", "", "Output format: auto, terminal, plain, json")
	fs.BoolVar(&c.noColor, "no-color", false, "Disable colors")
	fs.BoolVar(&c.debug, "debug", false, "Log requests and poller activity to stderr")
	fs.DurationVar(&c.timeout, "timeout", 0, "Per-request timeout")
	fs.StringVar(&c.sessionFile, "session-file", "", "Where login stores credentials")
	return c
}

// app is the wired-up runtime for one command.
type app struct {
	cfg    *config.Resolved
	log    *zap.Logger
	client *api.Client
	store  session.Store
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// setup resolves configuration and builds the logger, client and session
// store. It returns a non-negative exit code on failure.
func setup(fs *flag.FlagSet, c *commonFlags, stdin io.Reader, stdout, stderr io.Writer) (*app, int) {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return nil, exitUsage
	}
	file, path, err := config.LoadFile()
	if err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return nil, exitUsage
	}

	flags := config.CliFlags{
		APIURL:      c.apiURL,
		Theme:       c.theme,
		Format:      c.format,
		NoColor:     c.noColor,
		Debug:       c.debug,
		Timeout:     c.timeout,
		SessionFile: c.sessionFile,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-color":
			flags.NoColorSet = true
		case "debug":
			flags.DebugSet = true
		}
	})

	cfg, err := config.Resolve(flags, file)
	if err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return nil, exitUsage
	}

	a := &app{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}
	level := cfg.LogLevel
	if a.interactive() {
		// Poll failures already show in the error banner.
		level = logging.ScreenLevel(level)
	}
	log, err := logging.New(level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return nil, exitUsage
	}
	a.log = log
	log.Debug("config resolved",
		zap.String("file", path),
		zap.String("api_url", cfg.APIURL),
		zap.String("api_url_source", cfg.APIURLSource),
		zap.String("theme", cfg.Theme),
		zap.String("format", cfg.Format))

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	client, err := api.New(cfg.APIURL, api.Options{Timeout: cfg.Timeout, Logger: log, Limiter: limiter})
	if err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return nil, exitUsage
	}

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			fmt.Fprintf(stderr, "promptboard: %v\n", err)
			return nil, exitUsage
		}
	}

	a.client = client
	a.store = session.Store{Path: sessionPath}
	return a, -1
}

// fail prints err and maps it to an exit code.
func (a *app) fail(ctx context.Context, err error) int {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	fmt.Fprintf(a.stderr, "promptboard: %v\n", err)
	return exitFailure
}
