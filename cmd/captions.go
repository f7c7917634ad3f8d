package cmd

import (
	"github.com/spf13/cobra"
)

var captionFlags batchFlags

var (
	withSentences bool
)

var captionsCmd = &cobra.Command{
	Use:   "captions <result.json>...",
	Short: "Write SRT/VTT captions from recognizer results",
	Long: `Write frame-accurate captions for each recognizer result JSON file.

Next to each caption file a debug listing of the line decisions, a YAML
report of hallucinations, repetitions and pause anomalies, the applied
corrections and the spelling findings are written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCaptions,
}

func init() {
	captionFlags.register(captionsCmd)
	captionsCmd.Flags().StringVarP(&captionFlags.format, "format", "f", "srt", "caption format: srt, vtt")
	captionsCmd.Flags().BoolVar(&withSentences, "sentences", false, "also write sentence records")

	rootCmd.AddCommand(captionsCmd)
}

func runCaptions(cmd *cobra.Command, args []string) error {
	opts, err := captionFlags.options(args)
	if err != nil {
		return err
	}
	opts.Captions = true
	opts.Sentences = withSentences
	return runBatch(opts)
}
