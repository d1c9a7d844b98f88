package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/httputil"
	"github.com/matzehuels/figslides/pkg/pipeline"
	"github.com/matzehuels/figslides/pkg/scene"
)

// convertOpts holds the command-line flags for the convert command. Slide
// and render flags override the config file only when given.
type convertOpts struct {
	output       string
	formats      string
	name         string
	noCache      bool
	refresh      bool
	slideNumbers bool
	safeArea     bool
	margin       float64
	width        float64
	height       float64
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert <design.json|URL|->",
		Short: "Convert a design export into a PowerPoint deck",
		Long: `Convert a design export into a PowerPoint deck.

The input is a JSON file, an http(s) URL serving one, or "-" for stdin.
Without --output, files are written next to the input (or named after the
document for URL and stdin input). With several formats, --output is used as
the base path.`,
		Example: `  figslides convert design.json
  figslides convert design.json -o deck.pptx --slide-numbers
  figslides convert https://example.com/export.json -f pptx,svg
  cat design.json | figslides convert - -o - > deck.pptx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): pptx (default), json, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.name, "name", "", "presentation name (default: the document's fileName)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")
	cmd.Flags().BoolVar(&opts.slideNumbers, "slide-numbers", false, "add an \"n / total\" footer to every slide")
	cmd.Flags().BoolVar(&opts.safeArea, "safe-area", false, "pull layers inside the safe margin")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "safe margin in inches (0 for edge-to-edge)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "slide width in inches")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "slide height in inches")

	return cmd
}

// runConvert loads the document, runs the pipeline and writes every
// requested format.
func (c *CLI) runConvert(cmd *cobra.Command, input string, opts *convertOpts) error {
	ctx := cmd.Context()

	popts, err := c.convertOptions(cmd, opts)
	if err != nil {
		return err
	}

	doc, err := c.loadDocument(ctx, input, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.Logger.Debugf("Loaded %q: %d slides, %d layers", doc.FileName, len(doc.Slides), doc.LayerCount())

	runner, err := c.newRunner(ctx, opts.noCache, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	sw := startStopwatch(c.Logger)
	result, err := runner.Execute(ctx, doc, popts)
	if err != nil {
		return err
	}
	sw.lap("executed")

	paths, err := writeArtifacts(result, popts.Formats, input, opts.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	sw.lap("wrote artifacts")
	if opts.output == stdinArg {
		return nil
	}

	sw.stop("Converted "+result.FileName, "slides", result.Stats.Slides)
	printSuccess("Converted %s", StyleValue.Render(result.FileName))
	printStats(result.Stats, result.CacheInfo.PlanHit && result.CacheInfo.RenderHit)
	printSkipReasons(result.Stats)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// convertOptions layers the command flags over the configured defaults.
func (c *CLI) convertOptions(cmd *cobra.Command, opts *convertOpts) (pipeline.Options, error) {
	popts := c.baseOptions("cli")
	popts.FileName = opts.name
	popts.Refresh = opts.refresh

	flags := cmd.Flags()
	if flags.Changed("format") {
		formats, err := pipeline.ParseFormats(opts.formats)
		if err != nil {
			return popts, err
		}
		popts.Formats = formats
	}
	if flags.Changed("slide-numbers") {
		popts.SlideNumbers = opts.slideNumbers
	}
	if flags.Changed("safe-area") {
		popts.ConstrainToSafeArea = opts.safeArea
	}
	if flags.Changed("margin") {
		popts.Slide = popts.Slide.WithMargin(opts.margin)
	}
	if flags.Changed("width") {
		popts.Slide.TargetWidth = opts.width
	}
	if flags.Changed("height") {
		popts.Slide.TargetHeight = opts.height
	}

	if err := popts.ValidateAndSetDefaults(); err != nil {
		return popts, err
	}
	if opts.output == stdinArg && len(popts.Formats) != 1 {
		return popts, errors.New(errors.ErrCodeInvalidInput, "writing to stdout requires exactly one format")
	}
	return popts, nil
}

// loadDocument reads the design export from a file, a URL or stdin.
func (c *CLI) loadDocument(ctx context.Context, input string, stdin io.Reader, stderr io.Writer) (*scene.Document, error) {
	switch {
	case input == stdinArg:
		return scene.ReadJSON(stdin)
	case isURL(input):
		var data []byte
		err := spin(ctx, stderr, "Fetching "+input, func(ctx context.Context) error {
			var err error
			data, err = httputil.NewClient().Fetch(ctx, input)
			return err
		})
		if err != nil {
			return nil, err
		}
		return scene.Parse(data)
	default:
		return scene.ImportJSON(input)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// =============================================================================
// Output
// =============================================================================

// writeArtifacts writes each rendered format and returns the paths written.
// An output of "-" streams the single artifact to stdout instead.
func writeArtifacts(result *pipeline.Result, formats []string, input, output string, stdout io.Writer) ([]string, error) {
	if output == stdinArg {
		_, err := stdout.Write(result.Artifacts[formats[0]])
		return nil, err
	}

	base := basePath(output, input, result.FileName)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if samePath(path, input) {
			path = base + ".plan." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the output path without extension. An explicit output
// loses a known format extension; otherwise the input file's path is used,
// or the document name for URL and stdin input.
func basePath(output, input, fileName string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input != stdinArg && !isURL(input) {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	return errors.SanitizeFileName(fileName)
}

func samePath(a, b string) bool {
	if b == stdinArg || isURL(b) {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
