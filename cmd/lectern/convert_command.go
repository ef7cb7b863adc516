package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/artifact"
	"lectern/internal/language"
	"lectern/internal/pipeline"
	"lectern/internal/progress"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		languageFlag   string
		styleFlag      string
		enrichFlag     string
		topicFlag      string
		noNarration    bool
		overlayFlag    bool
		transcriptFlag bool
		visualsDir     string
		quiet          bool
	)

	cmd := &cobra.Command{
		Use:   "convert <extraction.json>",
		Short: "Convert one extraction document into a narrated video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			// Flags override the configured defaults for this run only.
			if languageFlag != "" {
				code := language.Normalize(languageFlag)
				if !language.Supported(code) {
					return fmt.Errorf("unsupported language %q (see 'lectern languages')", languageFlag)
				}
				cfg.Translation.TargetLanguage = code
			}
			if styleFlag != "" {
				cfg.Narration.Style = strings.ToLower(styleFlag)
			}
			if enrichFlag != "" {
				cfg.Enrichment.Level = strings.ToLower(enrichFlag)
			}
			if topicFlag != "" {
				cfg.Enrichment.Topic = topicFlag
			}
			if noNarration {
				cfg.Narration.Enabled = false
			}
			if overlayFlag {
				cfg.Video.OverlayText = true
			}
			if transcriptFlag {
				cfg.Transcript.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var sink progress.Sink = progress.Discard()
			if !quiet {
				sink = progress.Func(func(message string) {
					fmt.Fprintln(cmd.OutOrStdout(), message)
				})
			}

			p, err := pipeline.New(pipeline.Options{
				Config:     cfg,
				Logger:     logger,
				Progress:   sink,
				VisualsDir: visualsDir,
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := p.Run(runCtx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderResult(result))
			if !quiet {
				if doc, err := artifact.Load(result.StagedArtifactPath); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), renderSlideTable(doc))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Target language code (overrides config)")
	cmd.Flags().StringVarP(&styleFlag, "style", "s", "", "Narration style (see 'lectern styles')")
	cmd.Flags().StringVarP(&enrichFlag, "enrichment", "e", "", "Enrichment level: off, minimal, normal, detailed, academic")
	cmd.Flags().StringVar(&topicFlag, "topic", "", "Presentation topic for enrichment prompts")
	cmd.Flags().BoolVar(&noNarration, "no-narration", false, "Skip narration and speak slide text directly")
	cmd.Flags().BoolVar(&overlayFlag, "overlay", false, "Burn translated slide text onto the video")
	cmd.Flags().BoolVar(&transcriptFlag, "transcript", false, "Also export a .docx transcript")
	cmd.Flags().StringVar(&visualsDir, "visuals", "", "Directory of slide images (default: <input>_images)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func renderResult(result *pipeline.Result) string {
	rows := [][]string{
		{"Job", result.JobID},
		{"Source", result.SourceFile},
		{"Language", language.DisplayName(result.TargetLanguage)},
		{"Translated", fmt.Sprintf("%d/%d slides", result.TranslatedSlides, result.TotalSlides)},
		{"Video", result.VideoPath},
		{"Artifact", result.ArtifactPath},
		{"Duration", result.Duration.Round(time.Second).String()},
	}
	if result.TranscriptPath != "" {
		rows = append(rows, []string{"Transcript", result.TranscriptPath})
	}
	if result.NarrationDisabled {
		rows = append(rows, []string{"Warning", "narration stopped early after a provider error"})
	}
	return renderTable([]string{"Field", "Value"}, rows)
}

func renderSlideTable(doc *artifact.Document) string {
	rows := make([][]string, 0, len(doc.Slides))
	for _, slide := range doc.Slides {
		status := "ok"
		if slide.TranslationError != "" {
			status = slide.TranslationError
		}
		rows = append(rows, []string{
			strconv.Itoa(slide.SlideNumber),
			fmt.Sprintf("%.1fs", slide.Duration),
			status,
		})
	}
	return renderTable([]string{"Slide", "Audio", "Translation"}, rows, 1, 2)
}
