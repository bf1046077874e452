package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsonkit/ecmason/pkg/errors"
	"github.com/jsonkit/ecmason/pkg/scanner"
)

// newValidateCmd creates the validate command. It checks documents against
// the JSON grammar and reports the byte offset of the first error. Exit
// status is nonzero when any input is invalid.
func newValidateCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check JSON documents for syntax errors",
		Long: `Check JSON documents for syntax errors.

Reads from stdin when no files are given. Reports the byte offset of the
first violation in each invalid document.

Examples:
  cat data.json | ecmason validate
  ecmason validate a.json b.json
  ecmason validate --quiet data.json && echo ok`,
		RunE: func(c *cobra.Command, args []string) error {
			return runValidate(c.Context(), args, quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output, report via exit status only")

	return cmd
}

func runValidate(ctx context.Context, args []string, quiet bool) error {
	logger := loggerFromContext(ctx)

	if len(args) == 0 {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "reading stdin")
		}
		return validateOne(logger, "stdin", input, quiet)
	}

	var failed bool
	for _, path := range args {
		input, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
		}
		if err := validateOne(logger, path, input, quiet); err != nil {
			failed = true
		}
	}
	if failed {
		return errors.New(errors.ErrCodeSyntax, "one or more documents are invalid")
	}
	return nil
}

// validateOne scans a single document, printing a per-file verdict.
func validateOne(logger interface{ Debugf(string, ...any) }, name string, input []byte, quiet bool) error {
	_, err := scanner.Parse(string(input))
	if err != nil {
		if !quiet {
			printError("%s: %v", name, err)
		}
		return err
	}
	logger.Debugf("validated %s (%d bytes)", name, len(input))
	if !quiet {
		printSuccess("%s", name)
	}
	return nil
}
