package main

import (
	"fmt"
	"path/filepath"

	"github.com/cloudwego/eino/components/document"
	"github.com/spf13/cobra"

	"pdfchat/internal/extract"
)

var summarizeMessage string

var summarizeCmd = &cobra.Command{
	Use:   "summarize <file.pdf>",
	Short: "Summarize a local PDF and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeMessage, "message", "m", "", "instruction sent with the document text")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	loader, err := extract.NewLoader(ctx, app.parser)
	if err != nil {
		return fmt.Errorf("create loader: %w", err)
	}
	docs, err := loader.Load(ctx, document.Source{URI: path})
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	reply, err := app.assistant.SummarizeText(ctx, extract.Join(docs), summarizeMessage)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
