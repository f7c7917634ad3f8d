package cmd

import (
	"github.com/spf13/cobra"
)

var sentenceFlags batchFlags

var sentencesCmd = &cobra.Command{
	Use:   "sentences <result.json>...",
	Short: "Write sentence records for speech synthesis",
	Long: `Write one corrected record per sentence, with pause markers between
sentences, as JSON plus the plain speech text for each recognizer result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSentences,
}

func init() {
	sentenceFlags.register(sentencesCmd)
	rootCmd.AddCommand(sentencesCmd)
}

func runSentences(cmd *cobra.Command, args []string) error {
	opts, err := sentenceFlags.options(args)
	if err != nil {
		return err
	}
	opts.Sentences = true
	return runBatch(opts)
}
