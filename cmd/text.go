package main

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cardscan/internal/extract"
	"github.com/sells-group/cardscan/internal/model"
)

var textCmd = &cobra.Command{
	Use:   "text [file|-]",
	Short: "Extract a contact from already recognized card text",
	Long:  "Runs the rule-based extractor on text read from a file, or from stdin when the argument is omitted or \"-\".",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("text"); err != nil {
			return err
		}

		var (
			raw []byte
			err error
		)
		if len(args) == 0 || args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return eris.Wrap(err, "read text")
		}

		return writeOutput(cmd.OutOrStdout(), outputFormat, textResult(string(raw)))
	},
}

func init() {
	rootCmd.AddCommand(textCmd)
}

// textResult wraps the rule-based extraction of raw as a result.
func textResult(raw string) *model.ExtractionResult {
	start := time.Now()
	fields := extract.New(nil, nil, nil, extract.Options{}).ExtractFromText(raw)
	method := model.MethodRules
	if fields.IsEmpty() {
		method = model.MethodNone
	}
	return &model.ExtractionResult{
		RequestID:  uuid.NewString(),
		Fields:     fields,
		RawText:    raw,
		Method:     method,
		DurationMs: time.Since(start).Milliseconds(),
	}
}
