package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/strager/pseudo/sexy"
)

// errAnalysisFailed is returned by commands whose input produced a fatal
// diagnostic. The diagnostic has already been printed.
var errAnalysisFailed = errors.New("analysis failed")

// app is the state shared by all subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool

	cfg      *Config
	log      *slog.Logger
	reporter *consoleReporter
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "pseudo",
		Short: "Analyze pseudo-language programs",
		Long: `pseudo checks programs written in a small line-oriented pseudo-language
and turns them into a typed syntax tree.

Every statement sits on its own line. Blocks are opened with a trailing
colon and closed with "end for;", "end if;" or "end function;".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./"+DefaultConfigFile+" if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every classified line")

	root.AddCommand(
		a.checkCmd(),
		a.astCmd(),
		a.evalCmd(),
		a.replCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.cfg = cfg
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	a.reporter = newConsoleReporter(a.stdout, a.stderr, cfg.Diagnostics.Color)
	return nil
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Analyze a file and write its tree to the configured output",
		Long: `Analyze a file and write its tree to the configured output.

Markdown files (.md) are analyzed as one program made of all their
` + "```pseudo" + ` code blocks, with line numbers counted in the Markdown file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(args[0])
		},
	}
}

func (a *app) astCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the tree of a file to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			f, err := ParseFormat(format)
			if err != nil {
				return err
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			program, err := AnalyzeSource(src, a.reporter, WithLogger(a.log))
			if err != nil {
				return errAnalysisFailed
			}
			return WriteProgram(a.stdout, program, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml or sexpr (default from config)")
	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "eval <code>",
		Short: "Analyze inline code",
		Long: `Analyze inline code and print its tree.

Statements are separated by newlines; the two-character sequence \n is
accepted as a separator too.`,
		Example: `  pseudo eval 'int x = 1;\nint y = x;'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseFormat(format)
			if err != nil {
				return err
			}
			code := strings.ReplaceAll(args[0], `\n`, "\n")
			a.log.Debug("evaluating", "code", code)
			program, err := AnalyzeSource(code, a.reporter, WithLogger(a.log))
			if err != nil {
				return errAnalysisFailed
			}
			return WriteProgram(a.stdout, program, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(FormatSExpr), "output format: json, yaml or sexpr")
	return cmd
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Analyze statements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl()
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run check whenever a file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0])
		},
	}
}

// check analyzes path, writes the tree and prints a timed summary.
func (a *app) check(path string) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}

	start := time.Now()
	program, err := AnalyzeSource(src, a.reporter, WithLogger(a.log))
	elapsed := time.Since(start)
	if err != nil {
		a.reporter.Failure(fmt.Sprintf("%s was not analyzed", path), elapsed)
		return errAnalysisFailed
	}

	if err := writeOutput(a.stdout, a.cfg.Output, path, program); err != nil {
		return err
	}
	a.log.Debug("wrote tree", "path", a.cfg.Output.Path, "format", a.cfg.Output.Format, "statements", len(program))
	a.reporter.Success(fmt.Sprintf("%s analyzed", path), elapsed)
	return nil
}

// readSource reads a program file. For Markdown files it returns the
// program formed by the pseudo code blocks.
func readSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".md") {
		return literateSource(string(content))
	}
	return string(content), nil
}

// literateSource blanks every line of a Markdown document that is not inside
// a pseudo code block, so diagnostics keep the document's line numbers.
func literateSource(markdown string) (string, error) {
	blocks, err := sexy.ExtractCodeBlocks(markdown, "pseudo")
	if err != nil {
		return "", err
	}

	lines := make([]string, strings.Count(markdown, "\n")+1)
	for _, block := range blocks {
		body := strings.Split(strings.TrimSuffix(block.Content, "\n"), "\n")
		for i, text := range body {
			if n := block.Line - 1 + i; n < len(lines) {
				lines[n] = text
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

const (
	promptMain = "pseudo> "
	promptCont = "....... "
)

func (a *app) repl() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := a.cfg.REPL.HistoryFile
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(a.stdout, "pseudo repl; type :help for commands")
	s := newReplSession(a.stdout, a.reporter, WithLogger(a.log))
	for {
		prompt := promptMain
		if s.analyzer.Depth() > 0 {
			prompt = promptCont
		}
		text, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			// io.EOF on Ctrl-D.
			fmt.Fprintln(a.stdout)
			return nil
		}
		if strings.TrimSpace(text) != "" {
			ln.AppendHistory(text)
		}
		if s.handle(text) {
			return nil
		}
	}
}

// replSession feeds REPL input to one analyzer at a time. A fatal
// diagnostic discards the session's program and starts a fresh one.
type replSession struct {
	out      io.Writer
	sink     DiagnosticSink
	opts     []Option
	analyzer *Analyzer
}

func newReplSession(out io.Writer, sink DiagnosticSink, opts ...Option) *replSession {
	return &replSession{out: out, sink: sink, opts: opts, analyzer: NewAnalyzer(opts...)}
}

const replHelp = `:ast     print the program so far, open blocks included
:finish  check that every block is closed and print the program
:reset   discard the program
:quit    leave the REPL`

// handle processes one line of input and reports whether the session is over.
func (s *replSession) handle(text string) bool {
	switch cmd := strings.TrimSpace(text); {
	case cmd == ":quit" || cmd == ":q":
		return true
	case cmd == ":help":
		fmt.Fprintln(s.out, replHelp)
	case cmd == ":ast":
		fmt.Fprintln(s.out, ProgramSExpr(s.analyzer.Program()))
	case cmd == ":reset":
		s.reset()
		fmt.Fprintln(s.out, "program discarded")
	case cmd == ":finish":
		program, err := s.analyzer.Finish()
		if err != nil {
			s.fail(err)
			return false
		}
		fmt.Fprintln(s.out, ProgramSExpr(program))
	case strings.HasPrefix(cmd, ":"):
		fmt.Fprintf(s.out, "unknown command %s. Type :help for commands.\n", cmd)
	default:
		if err := s.analyzer.ProcessLine(text); err != nil {
			s.fail(err)
		}
	}
	return false
}

func (s *replSession) fail(err error) {
	report(s.sink, err)
	s.reset()
	fmt.Fprintln(s.out, "program discarded")
}

func (s *replSession) reset() {
	s.analyzer = NewAnalyzer(s.opts...)
}

// watch runs check on path now and after every change until ctx is done.
// The directory is watched rather than the file so that editors which
// replace the file on save keep triggering runs.
func (a *app) watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	a.runWatched(target)

	debounce := a.cfg.Watch.Debounce.Duration
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
		case <-timer.C:
			a.runWatched(target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Error("watch error", "error", err)
		}
	}
}

// runWatched runs check and keeps going on failure.
func (a *app) runWatched(path string) {
	if err := a.check(path); err != nil && !errors.Is(err, errAnalysisFailed) {
		a.log.Error("check failed", "path", path, "error", err)
	}
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errAnalysisFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
