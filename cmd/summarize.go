package cmd

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <glob>...",
	Short: "Summarize documents matching glob patterns",
	Long: `Produces a structured digest for every document matching the given
glob patterns (doublestar syntax, e.g. "reports/**/*.pdf"). Each document
is summarized independently in one model call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := newLogger()
		_, _, summarizer, err := buildPipeline(cfg, log)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		var paths []string
		for _, pattern := range args {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					paths = append(paths, m)
				}
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("no files match %v", args)
		}
		sort.Strings(paths)

		for _, path := range paths {
			doc, err := loadDocument(path)
			if err != nil {
				log.Warn().Err(err).Str("file", path).Msg("skipping file")
				continue
			}
			digest, err := summarizer.Summarize(cmd.Context(), doc)
			if err != nil {
				return fmt.Errorf("summarizing %s: %w", path, err)
			}
			fmt.Printf("# %s\n\n%s\n\n", path, digest)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
