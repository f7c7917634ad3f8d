package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"whispersubs/internal/config"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	logFile    string

	logCloser io.Closer = io.NopCloser(nil)
)

var rootCmd = &cobra.Command{
	Use:   "whispersubs",
	Short: "Turn speech-recognition results into broadcast captions",
	Long: `whispersubs reads word-level speech-recognition results and turns them into
frame-accurate SRT/VTT captions, sentence records for speech synthesis and
spelling reports. Recognizer hallucinations and repetitions are screened out,
lines are split at sentence, pause, comma and conjunction boundaries and a
correction dictionary is applied to every line.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logCloser.Close()
	},
}

func setupLogging() {
	log, closer := config.NewLogger(os.Stderr, config.LogOptions{
		Verbose: verbose,
		Quiet:   quiet,
		File:    logFile,
	})
	logCloser = closer
	slog.SetDefault(log)
}

// loadConfig reads --config over the defaults.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this rotated file")
}
