package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/template"
)

// ValidateCmd checks a template file for unbalanced block tags
var ValidateCmd = &cobra.Command{
	Use:   "validate <template-file>...",
	Short: "Check templates for unbalanced block tags",
	Long:  `Validate one or more template files. Exits non-zero if any template has unbalanced {{#if}} or {{#each}} blocks.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read template %s", path)
		}

		result := template.Validate(string(source))
		if result.Valid {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			continue
		}

		failed++
		for _, msg := range result.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, msg)
		}
	}

	if failed > 0 {
		return errors.Newf("%d of %d template(s) invalid", failed, len(args))
	}
	return nil
}
