package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/doc-chat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp <document>",
	Short: "Start an MCP server over a document",
	Long: `Indexes the document and starts a Model Context Protocol server on
stdio, exposing search_document, ask_document, and summarize_document
tools for AI agents.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := newLogger()
		sess, engine, summarizer, err := buildPipeline(cfg, log)
		if err != nil {
			return err
		}

		if err := indexDocument(cmd.Context(), sess, cfg, args[0]); err != nil {
			return err
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "docchat MCP server started on stdio (document=%s, chunks=%d)\n",
			sess.Document().Name, sess.Index().Count())

		return mcpserver.NewServer(sess, engine, summarizer).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
