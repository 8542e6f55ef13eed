package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/verdict/errors"
	"github.com/teranos/verdict/template"
)

// RenderCmd renders a template file against JSON context data
var RenderCmd = &cobra.Command{
	Use:   "render [template-file]",
	Short: "Render a template against JSON context data",
	Long: `Render a template from a file argument or --template. Context data
comes from --data (a JSON file) or stdin when --data is "-". Partials
are loaded from --partials, a directory of *.tmpl files registered
under their basename.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var (
	renderInline      string
	renderDataPath    string
	renderPartialsDir string
	renderCheckFirst  bool
)

func init() {
	RenderCmd.Flags().StringVar(&renderInline, "template", "", "Inline template text instead of a file argument")
	RenderCmd.Flags().StringVar(&renderDataPath, "data", "", "JSON context file (\"-\" for stdin)")
	RenderCmd.Flags().StringVar(&renderPartialsDir, "partials", "", "Directory of *.tmpl partial files")
	RenderCmd.Flags().BoolVar(&renderCheckFirst, "check", false, "Validate before rendering and fail on syntax errors")
}

func runRender(cmd *cobra.Command, args []string) error {
	var source []byte
	switch {
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to read template %s", args[0])
		}
		source = data
	case renderInline != "":
		source = []byte(renderInline)
	default:
		return errors.New("provide a template file argument or --template")
	}

	ctx := template.Context{}
	if renderDataPath != "" {
		data, err := readData(renderDataPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &ctx); err != nil {
			return errors.Wrap(err, "failed to parse context JSON")
		}
	}

	partials, err := loadPartialsDir(renderPartialsDir)
	if err != nil {
		return err
	}

	engine, err := template.NewEngine(template.Config{})
	if err != nil {
		return err
	}

	if renderCheckFirst {
		result := engine.SafeRender(partials, string(source), ctx)
		if !result.Success {
			return errors.Newf("template invalid: %s", strings.Join(result.Errors, "; "))
		}
		fmt.Fprint(cmd.OutOrStdout(), result.Result)
		return nil
	}

	output, err := engine.Render(string(source), ctx, partials)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

func readData(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read data file %s", path)
	}
	return data, nil
}

// loadPartialsDir registers every *.tmpl file in dir by basename.
func loadPartialsDir(dir string) (template.Partials, error) {
	partials := template.Partials{}
	if dir == "" {
		return partials, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read partials dir %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read partial %s", entry.Name())
		}
		partials[strings.TrimSuffix(entry.Name(), ".tmpl")] = string(data)
	}

	return partials, nil
}
