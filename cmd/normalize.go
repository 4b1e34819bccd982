package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deckforge/deckforge/api/schemas"
	"github.com/deckforge/deckforge/internal/batch"
	"github.com/deckforge/deckforge/internal/layout"
	"github.com/deckforge/deckforge/internal/loader"
	"github.com/deckforge/deckforge/internal/observability"
	"github.com/deckforge/deckforge/internal/render"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var normalizeCmd = &cobra.Command{
	Use:   "normalize [files...]",
	Short: "Normalize one or more deck files into resolved JSON",
	Long: `Reads declarative deck documents (JSON or deckml XML), resolves every
position, color and text block, and writes the normalized tree as JSON.
Multiple files are normalized in parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	flags := normalizeCmd.Flags()
	flags.StringP("output", "o", "", "output file (single input) or directory (multiple inputs); default stdout")
	flags.Bool("pretty", true, "indent the JSON output")
	flags.Bool("trace", false, "append the draw-op trace for each deck")
	flags.Int("concurrency", 0, "parallel decks (default from config)")
	flags.String("font-face", "", "default font face override")
	flags.Float64("font-size", 0, "default font size override")
	flags.Bool("allow-master-override", false, "let a later master slide replace an earlier one with the same name")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	log := observability.GetLogger().Named("normalize")
	flags := cmd.Flags()

	if v, _ := flags.GetString("output"); flags.Changed("output") {
		appConfig.SetOutputPath(v)
	}
	if v, _ := flags.GetBool("pretty"); flags.Changed("pretty") {
		appConfig.SetOutputPretty(v)
	}
	if v, _ := flags.GetInt("concurrency"); flags.Changed("concurrency") {
		appConfig.SetBatchConcurrency(v)
	}
	if v, _ := flags.GetString("font-face"); flags.Changed("font-face") {
		appConfig.SetEngineDefaultFontFace(v)
	}
	if v, _ := flags.GetFloat64("font-size"); flags.Changed("font-size") {
		appConfig.SetEngineDefaultFontSize(v)
	}
	if v, _ := flags.GetBool("allow-master-override"); flags.Changed("allow-master-override") {
		appConfig.SetEngineAllowMasterOverride(v)
	}

	decks := make([]*schemas.Presentation, len(args))
	for i, path := range args {
		deck, err := loader.LoadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		decks[i] = deck
	}

	engine := layout.New(appConfig.Engine())
	results, err := batch.New(engine, appConfig.Batch().Concurrency).NormalizeAll(cmd.Context(), decks)
	if err != nil {
		return err
	}

	withTrace, _ := flags.GetBool("trace")
	for i, result := range results {
		if err := writeResult(args[i], result, len(args) > 1, withTrace); err != nil {
			return err
		}
		log.Info("normalized deck",
			zap.String("input", args[i]),
			zap.Int("slides", len(result.Slides)))
	}
	return nil
}

// output is a result plus its optional trace, in one document.
type output struct {
	Deck  *schemas.NormalizedPresentation `json:"deck"`
	Trace []render.Op                     `json:"trace,omitempty"`
}

func writeResult(input string, result *schemas.NormalizedPresentation, multi, withTrace bool) error {
	doc := output{Deck: result}
	if withTrace {
		tr := &render.TraceRenderer{}
		if err := tr.Render(result); err != nil {
			return err
		}
		doc.Trace = tr.Ops
	}

	var data []byte
	var err error
	if appConfig.Output().Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding normalized deck: %w", err)
	}
	data = append(data, '\n')

	dest := appConfig.Output().Path
	if dest == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if multi {
		// With several inputs the output path is a directory.
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		dest = filepath.Join(dest, base+".normalized.json")
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
