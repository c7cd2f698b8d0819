package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dkoosis/promptboard/internal/api"
	"github.com/dkoosis/promptboard/internal/session"
	"github.com/dkoosis/promptboard/internal/submission"
	"github.com/dkoosis/promptboard/internal/tui"
	"github.com/dkoosis/promptboard/internal/view"
	"github.com/dkoosis/promptboard/pkg/pattern"
	"github.com/dkoosis/promptboard/pkg/poller"
	"github.com/dkoosis/promptboard/pkg/stream"
)

// Poll intervals. Tests shorten them.
var (
	readinessInterval = poller.ReadinessInterval
	liveInterval      = poller.LiveInterval
)

// parseFlags parses args and reports the exit code to return, or -1 to
// continue.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "%s: unexpected argument %q\n", fs.Name(), fs.Arg(0))
		return exitUsage
	}
	return -1
}

// runFinal polls the final standings until at least one entry is scored.
func runFinal(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("final", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs)
	once := fs.Bool("once", false, "Print the state after one fetch instead of waiting for scores")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	a, code := setup(fs, c, stdin, stdout, stderr)
	if code >= 0 {
		return code
	}

	feed := poller.NewFeed()
	updates := feed.C()
	r := poller.NewReadiness(a.client.FetchFinalLeaderboard, poller.Options{
		Interval: readinessInterval,
		Logger:   a.log,
		OnChange: feed.Send,
		OnStop:   feed.Close,
	})
	r.Start(ctx)
	defer r.Stop()

	if a.interactive() && !*once {
		return a.runTUI(ctx, tui.New(tui.Final, r, updates, a.theme(), readinessInterval))
	}
	return a.waitFinal(ctx, updates, *once)
}

// waitFinal prints the final standings once they are ready, or the first
// state seen when once is set.
func (a *app) waitFinal(ctx context.Context, updates <-chan poller.Snapshot, once bool) int {
	pendingShown := false
	for {
		select {
		case <-ctx.Done():
			return exitInterrupted
		case s, ok := <-updates:
			if !ok {
				// Closed by Stop, which only the interrupt triggers here.
				return exitInterrupted
			}
			switch {
			case s.Phase == poller.Loading && s.Err != nil:
				// Nothing is scheduled after a failed first fetch.
				return a.fail(ctx, s.Err)
			case s.Phase == poller.Ready || once:
				a.render(view.Final(s, readinessInterval))
				return exitOK
			case s.Err != nil:
				// Logged by the poller; the retry keeps running.
			case !pendingShown:
				fmt.Fprintln(a.stderr, view.PendingMessage(readinessInterval))
				pendingShown = true
			}
		}
	}
}

// runResults shows the general leaderboard: full screen on a TTY, an inline
// redrawing board with --stream, or a single fetch otherwise.
func runResults(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs)
	streamFlag := fs.Bool("stream", false, "Redraw standings inline and print changes as they happen")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	a, code := setup(fs, c, stdin, stdout, stderr)
	if code >= 0 {
		return code
	}

	if !a.interactive() && !*streamFlag {
		list, err := a.client.FetchLeaderboard(ctx)
		if err != nil {
			return a.fail(ctx, err)
		}
		a.render(view.Live(poller.Snapshot{Phase: poller.Ready, Entries: list, Fetches: 1}))
		return exitOK
	}

	feed := poller.NewFeed()
	updates := feed.C()
	l := poller.NewLive(a.client.FetchLeaderboard, poller.Options{
		Interval: liveInterval,
		Logger:   a.log,
		OnChange: feed.Send,
		OnStop:   feed.Close,
	})
	l.Start(ctx)
	defer l.Stop()

	if *streamFlag {
		width, height := termSize(stdout)
		return stream.Run(ctx, updates, stdout, width, height, streamStyle(a.theme()))
	}
	return a.runTUI(ctx, tui.New(tui.Live, l, updates, a.theme(), liveInterval))
}

func (a *app) runTUI(ctx context.Context, m tui.Model) int {
	err := tui.Run(ctx, m, tea.WithInput(a.stdin), tea.WithOutput(a.stdout))
	if ctx.Err() != nil {
		return exitInterrupted
	}
	if err != nil {
		return a.fail(ctx, err)
	}
	return exitOK
}

// runSubmit sends a prompt for scoring and prints per-question feedback.
func runSubmit(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs)
	promptFlag := fs.String("prompt", "", "Prompt text (default: read from --file or stdin)")
	fileFlag := fs.String("file", "", "Read the prompt from this file")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	a, code := setup(fs, c, stdin, stdout, stderr)
	if code >= 0 {
		return code
	}

	prompt, err := a.readPrompt(*promptFlag, *fileFlag)
	if err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return exitUsage
	}

	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(stderr, "promptboard: not logged in, run 'promptboard login' first")
		return exitFailure
	}
	if err != nil {
		return a.fail(ctx, err)
	}

	fb, err := submission.NewFlow(a.client, a.store, sess, a.log).Submit(ctx, prompt)
	var verr *submission.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(stderr, "promptboard: %v\n", verr)
		return exitUsage
	case errors.Is(err, submission.ErrSessionEnded):
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return exitFailure
	case err != nil:
		return a.fail(ctx, err)
	}

	a.render(fb.Patterns())
	return exitOK
}

func (a *app) readPrompt(text, file string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading prompt: %w", err)
		}
		return string(data), nil
	case isTTYReader(a.stdin):
		return "", errors.New("no prompt given, use --prompt, --file or pipe it on stdin")
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("reading prompt from stdin: %w", err)
		}
		return string(data), nil
	}
}

// runLogin checks credentials with the server and stores them.
func runLogin(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs)
	name := fs.String("name", "", "Participant name (required)")
	password := fs.String("password", "", "Password (default: prompt, or first line of stdin)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(stderr, "login: --name is required")
		return exitUsage
	}
	a, code := setup(fs, c, stdin, stdout, stderr)
	if code >= 0 {
		return code
	}

	pw := *password
	if pw == "" {
		var err error
		if pw, err = a.readPassword(); err != nil {
			fmt.Fprintf(stderr, "promptboard: %v\n", err)
			return exitUsage
		}
	}
	if pw == "" {
		fmt.Fprintln(stderr, "login: password is required")
		return exitUsage
	}

	known, err := a.client.Login(ctx, strings.TrimSpace(*name), pw)
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(stderr, "promptboard: invalid name or password")
		return exitFailure
	}
	if err != nil {
		return a.fail(ctx, err)
	}

	if err := a.store.Save(&session.Session{Name: known, Password: pw}); err != nil {
		return a.fail(ctx, err)
	}
	a.log.Debug("session saved", zap.String("path", a.store.Path))
	fmt.Fprintf(stdout, "Logged in as %s\n", known)
	return exitOK
}

func (a *app) readPassword() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.stderr, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// runLogout removes the stored session.
func runLogout(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	a, code := setup(fs, c, nil, stdout, stderr)
	if code >= 0 {
		return code
	}
	if err := a.store.Clear(); err != nil {
		fmt.Fprintf(stderr, "promptboard: %v\n", err)
		return exitFailure
	}
	fmt.Fprintln(stdout, "Logged out")
	return exitOK
}

// runQuestions lists the fixed test questions with their categories.
func runQuestions(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("questions", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := addCommonFlags(fs)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	a, code := setup(fs, c, nil, stdout, stderr)
	if code >= 0 {
		return code
	}

	qs := submission.Questions()
	counts := make(map[submission.Category]int)
	table := &pattern.TestTable{Label: "Test questions"}
	for _, q := range qs {
		counts[q.Expected]++
		table.Results = append(table.Results, pattern.TestTableItem{
			Name:     q.Text,
			Status:   pattern.StatusUnknown,
			Expected: string(q.Expected),
		})
	}
	summary := &pattern.Summary{Label: "Categories", Kind: pattern.SummaryKindCategories}
	for _, cat := range submission.Categories {
		summary.Metrics = append(summary.Metrics, pattern.SummaryItem{
			Label: string(cat),
			Value: fmt.Sprintf("%d of %d", counts[cat], len(qs)),
			Kind:  "info",
		})
	}
	a.render([]pattern.Pattern{summary, table})
	return exitOK
}
