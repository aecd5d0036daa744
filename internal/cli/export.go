package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"design2prompt/internal/app"
	"design2prompt/internal/domain"
)

const (
	formatPrompt = "prompt"
	formatJSON   = "json"
)

type exportOpts struct {
	format    string
	instance  string
	component string
	blob      string
	output    string
}

func newExportCmd(root *rootOpts) *cobra.Command {
	opts := exportOpts{format: formatPrompt}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the prompt or JSON for the saved layout",
		Example: `  design2prompt export
  design2prompt export --instance 3f2a...
  design2prompt export --component neon-card --config eyJnbG93...
  design2prompt export --format json -o layout.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer core.Close(cmd.Context())

			out, err := opts.render(core)
			if err != nil {
				return err
			}
			return writeOutput(root.stdout, opts.output, out)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: prompt or json")
	cmd.Flags().StringVar(&opts.instance, "instance", "", "export one placed instance")
	cmd.Flags().StringVar(&opts.component, "component", "", "export a catalog component")
	cmd.Flags().StringVar(&opts.blob, "config", "", "shared config blob for --component")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("instance", "component")
	return cmd
}

func (o exportOpts) render(core *app.Core) ([]byte, error) {
	switch o.format {
	case formatJSON:
		if o.instance != "" || o.component != "" {
			return nil, fmt.Errorf("--format json exports the whole layout: %w", domain.ErrInvalidInput)
		}
		return core.Export.LayoutJSON()
	case formatPrompt:
	default:
		return nil, fmt.Errorf("unknown format %q: %w", o.format, domain.ErrInvalidInput)
	}

	var (
		text string
		err  error
	)
	switch {
	case o.instance != "":
		text, err = core.Export.InstancePrompt(o.instance)
	case o.component != "":
		wc := core.Export.DeepLink(o.component, o.blob)
		if !wc.FromLink && o.blob != "" {
			core.Logger.Warn("[export] config blob ignored", "component", o.component)
		}
		text, err = core.Export.ComponentPrompt(o.component, wc.StyleParams)
	default:
		text, err = core.Export.LayoutPrompt()
	}
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
