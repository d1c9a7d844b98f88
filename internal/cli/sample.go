package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/pipeline"
	"github.com/matzehuels/figslides/pkg/pptx"
)

// sampleCommand creates the sample command, which writes the one-slide
// smoke-test deck. Opening it in a presentation app checks an install end
// to end without a design export.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		output  string
		formats string
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a one-slide test presentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := pipeline.ParseFormats(formats)
			if err != nil {
				return err
			}
			opts := pipeline.Options{FileName: "test", Formats: fs}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			artifacts, err := pipeline.Render(pptx.SmokeTest(), opts)
			if err != nil {
				return err
			}

			base := basePath(output, stdinArg, opts.FileName)
			for _, format := range opts.Formats {
				path := base + "." + format
				if output != "" && len(opts.Formats) == 1 {
					path = output
				}
				if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
				}
				printFile(path)
			}
			printNextStep("Convert your own design", "figslides convert design.json")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default test.<format>)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatPPTX, "output format(s): pptx, json, svg (comma-separated)")

	return cmd
}
