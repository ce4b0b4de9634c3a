// Command semfind searches files by meaning rather than pattern.
//
//	semfind [flags] QUERY FILE...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/semfind/internal/app"
	"github.com/dshills/semfind/internal/config"
	"github.com/dshills/semfind/internal/indexer"
	"github.com/dshills/semfind/internal/render"
	"github.com/dshills/semfind/internal/searcher"
)

var version = "dev"

// exitError carries a process exit code out of a cobra command
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type options struct {
	topK      int
	context   int
	minScore  float64
	model     string
	reindex   bool
	noCache   bool
	color     string
	verbose   bool
	hasMinArg bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "semfind: %v\n", err)
		return 1
	}

	cmd := newRootCmd(cfg, stdout, stderr)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(ctx)
	var exitErr *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.code
	default:
		fmt.Fprintf(stderr, "semfind: %v\n", err)
		return 1
	}
}

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "semfind [flags] QUERY FILE...",
		Short:         "Semantic grep: search files by meaning, not pattern",
		Version:       version,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hasMinArg = cmd.Flags().Changed("max-distance")
			return runSearch(cmd.Context(), cfg, opts, args[0], args[1:], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("semfind {{.Version}}\n")

	flags := cmd.Flags()
	flags.IntVarP(&opts.topK, "top-k", "k", cfg.TopK, "number of results")
	flags.IntVarP(&opts.context, "context", "n", 0, "lines of context before and after each match")
	flags.Float64VarP(&opts.minScore, "max-distance", "m", 0, "minimum similarity a result must reach")
	flags.StringVar(&opts.model, "model", cfg.Model, "embedding model")
	flags.BoolVar(&opts.reindex, "reindex", false, "re-embed files even if a cached index exists")
	flags.BoolVar(&opts.noCache, "no-cache", false, "neither read nor write the embedding cache")
	flags.StringVar(&opts.color, "color", render.ColorAuto, "colorize output: auto, always or never")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log indexing and cache activity to stderr")

	return cmd
}

func runSearch(ctx context.Context, cfg *config.Config, opts *options, query string, files []string,
	stdout, stderr io.Writer) error {

	if missing := indexer.MissingFiles(files); len(missing) > 0 {
		for _, f := range missing {
			fmt.Fprintf(stderr, "semfind: %s: No such file\n", f)
		}
		return &exitError{code: 1}
	}

	if opts.context < 0 {
		return fmt.Errorf("--context cannot be negative")
	}
	color, err := render.UseColor(opts.color, stdout)
	if err != nil {
		return err
	}

	cfg.Model = opts.model

	var logger *log.Logger
	if opts.verbose {
		logger = log.New(stderr, "semfind: ", 0)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	req := searcher.Request{
		Query:   query,
		Files:   files,
		TopK:    opts.topK,
		Model:   opts.model,
		Reindex: opts.reindex,
		NoCache: opts.noCache,
	}
	if opts.hasMinArg {
		req.MinScore = &opts.minScore
	}

	resp, err := a.Searcher.Search(ctx, req)
	if err != nil {
		return err
	}

	if len(resp.Results) == 0 {
		fmt.Fprintln(stderr, "No results found.")
		return nil
	}

	return render.NewPrinter(stdout, color, opts.context).Print(resp.Results)
}
