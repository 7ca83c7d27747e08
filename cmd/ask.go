package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <document> <question>",
	Short: "Ask a one-shot question about a document",
	Long: `Indexes the document, retrieves the passages most similar to the
question, and streams a grounded answer to stdout.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := newLogger()
		sess, engine, _, err := buildPipeline(cfg, log)
		if err != nil {
			return err
		}

		if err := indexDocument(cmd.Context(), sess, cfg, args[0]); err != nil {
			return err
		}

		answer, err := engine.Ask(cmd.Context(), args[1], func(delta string) error {
			_, err := fmt.Print(delta)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Println()

		if verbose {
			for _, src := range answer.Sources {
				fmt.Fprintf(os.Stderr, "source: chunk %d, page %d (similarity %.4f)\n",
					src.Seq, src.Page, src.Similarity)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
