package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsonkit/ecmason/pkg/cache"
	"github.com/jsonkit/ecmason/pkg/errors"
	"github.com/jsonkit/ecmason/pkg/hostval"
	"github.com/jsonkit/ecmason/pkg/json"
)

// fmtOpts holds the command-line flags for the fmt command.
type fmtOpts struct {
	indent    int    // number of spaces per level (0 = compact)
	indentStr string // literal indent string, overrides indent
	output    string // output file path (stdout if empty)
	write     bool   // rewrite input files in place
	refresh   bool   // bypass the result cache
}

// newFmtCmd creates the fmt command. It reads JSON from files or stdin,
// parses it with full ECMAScript semantics, and re-serializes it with the
// requested gap. Results are cached on disk keyed by input hash and gap.
func newFmtCmd() *cobra.Command {
	var opts fmtOpts

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Reformat JSON documents",
		Long: `Reformat JSON documents with ECMAScript serialization semantics.

Reads from stdin when no files are given. Indentation follows the JSON.stringify
space argument: up to ten characters of gap per nesting level.

Examples:
  cat data.json | ecmason fmt --indent 2
  ecmason fmt --indent 4 config.json
  ecmason fmt --write *.json
  ecmason fmt --indent-str "	" data.json   # tab indent`,
		RunE: func(c *cobra.Command, args []string) error {
			return runFmt(c.Context(), &opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.indent, "indent", "i", 0, "spaces per indent level (0 = compact, max 10)")
	cmd.Flags().StringVar(&opts.indentStr, "indent-str", "", "literal indent string (overrides --indent, max 10 chars)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite input files in place")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the result cache")

	return cmd
}

// runFmt formats stdin or each named file.
func runFmt(ctx context.Context, opts *fmtOpts, args []string) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gap := cfg.indentString(opts.indent, opts.indentStr)

	store := openCache(ctx, cfg, opts.refresh)
	defer store.Close()

	if len(args) == 0 {
		if opts.write {
			return errors.New(errors.ErrCodeInvalidInput, "--write requires file arguments")
		}
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "reading stdin")
		}
		out, cached, err := formatCached(ctx, store, cfg.Cache.TTL, input, gap)
		if err != nil {
			return err
		}
		logger.Debugf("formatted stdin (%d bytes in, %d bytes out, cached=%v)", len(input), len(out), cached)
		return writeOutput(opts.output, out)
	}

	prog := newProgress(logger)
	for _, path := range args {
		input, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
		}
		out, cached, err := formatCached(ctx, store, cfg.Cache.TTL, input, gap)
		if err != nil {
			printError("%s: %v", path, errors.UserMessage(err))
			return err
		}

		switch {
		case opts.write:
			if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
			}
			printSuccess("formatted %s", path)
			printStats(len(input), len(out), cached)
		case opts.output != "":
			if err := writeOutput(opts.output, out); err != nil {
				return err
			}
			printFile(opts.output)
		default:
			if err := writeOutput("", out); err != nil {
				return err
			}
		}
	}
	if opts.write {
		prog.done(fmt.Sprintf("Formatted %d documents", len(args)))
	}
	return nil
}

// formatText runs the full parse/stringify pipeline on a JSON document.
// An input whose root serializes to nothing (only possible via replacers,
// which the CLI does not expose) is reported as invalid.
func formatText(input string, gap string) (string, error) {
	v, err := json.Parse(input, nil)
	if err != nil {
		return "", err
	}
	var space *hostval.Value
	if gap != "" {
		space = hostval.String(gap)
	}
	out, ok, err := json.Stringify(v, nil, space)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "document serialized to no output")
	}
	return out, nil
}

// formatCached consults the store before formatting and saves fresh results.
// Cache failures degrade to formatting without caching.
func formatCached(ctx context.Context, store cache.Cache, ttl time.Duration, input []byte, gap string) ([]byte, bool, error) {
	key := cache.FormatKey(input, gap)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	out, err := formatText(string(input), gap)
	if err != nil {
		return nil, false, err
	}
	_ = store.Set(ctx, key, []byte(out), ttl)
	return []byte(out), false, nil
}

// openCache builds the configured cache, falling back to NullCache when
// caching is disabled or the directory cannot be created.
func openCache(ctx context.Context, cfg Config, refresh bool) cache.Cache {
	if refresh || !cfg.Cache.Enabled {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		loggerFromContext(ctx).Warnf("cache disabled: %v", err)
		return cache.NewNullCache()
	}
	return fc
}

// writeOutput writes data plus a trailing newline to path, or stdout if empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
