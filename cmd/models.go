package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"latexgen/internal/ai/factory"
	"latexgen/internal/service"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available to the configured provider",
	Long: `List models the configured provider can use for text generation.
Use --all to include models that do not support generation.`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().Bool("all", false, "list every model, not only text generation models")
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	all, _ := cmd.Flags().GetBool("all")

	ctx := context.Background()
	provider, err := factory.NewProvider(ctx, &cfg.AI)
	if err != nil {
		return err
	}

	resp, err := service.NewGenerateService(&cfg.AI, provider).ListModels(ctx, all)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider: %s (%d models)\n", resp.Provider, len(resp.Models))
	for _, m := range resp.Models {
		line := "  " + m.Name
		if m.DisplayName != "" {
			line += " - " + m.DisplayName
		}
		if len(m.SupportedGenerationMethods) > 0 {
			line += " [" + strings.Join(m.SupportedGenerationMethods, ", ") + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
