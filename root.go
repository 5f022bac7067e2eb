package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pdfchat",
	Short: "Chat and PDF summarization backend",
	Long: `pdfchat proxies single-turn chat prompts to a hosted LLM provider
and summarizes uploaded PDF documents. Run without a subcommand to serve HTTP.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default config.json, env PDFCHAT_CONFIG)")
}
