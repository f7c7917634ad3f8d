package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"whispersubs/internal/spelling"
	"whispersubs/internal/worker"
)

var (
	spellDictionary string
	spellExceptions string
)

var spellcheckCmd = &cobra.Command{
	Use:   "spellcheck <text-file>...",
	Short: "Report unknown words in caption or plain text files",
	Long: `Scan whitespace-separated tokens of text files against the spelling
dictionary and the exception tables and print a YAML report of the unknown
tokens, most frequent first, with suggestions where a close match is known.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpellcheck,
}

func init() {
	spellcheckCmd.Flags().StringVar(&spellDictionary, "dictionary", "", "word list (default: spelling.dictionary from config)")
	spellcheckCmd.Flags().StringVar(&spellExceptions, "exceptions", "", "exception tables (default: spelling.exceptions from config)")

	rootCmd.AddCommand(spellcheckCmd)
}

func runSpellcheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if spellDictionary != "" {
		cfg.Spelling.Dictionary = spellDictionary
	}
	if spellExceptions != "" {
		cfg.Spelling.Exceptions = spellExceptions
	}

	dict, err := worker.LoadDictionary(cfg.CorrectionDictionary)
	if err != nil {
		return err
	}
	checker, suggester, err := worker.LoadSpelling(cfg.Spelling, dict)
	if err != nil {
		return err
	}
	if err := checker.Ready(); err != nil {
		return fmt.Errorf("spellcheck: %w", err)
	}

	var tokens []string
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tokens = append(tokens, strings.Fields(string(data))...)
	}

	findings := spelling.Report(checker.Check(tokens), suggester)
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(findings)
}
