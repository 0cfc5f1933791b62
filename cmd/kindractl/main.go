// Command kindractl runs the insight engine and the advice responder offline
// over a JSON export, and mints development tokens.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"kindra/domain/advice"
	domainconfig "kindra/domain/config"
	"kindra/domain/insights"
	"kindra/pkg/auth"

	"github.com/spf13/cobra"
)

var (
	exportFile    string
	analyticsFile string
	includeAll    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kindractl",
		Short:         "Offline tools for Kindra relationship insights",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&exportFile, "file", "f", "", "path to a JSON export")
	root.PersistentFlags().StringVar(&analyticsFile, "analytics-config", "", "YAML file with analytics overrides")

	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "Generate insights for an export",
		Args:  cobra.NoArgs,
		RunE:  runInsights,
	}
	insightsCmd.Flags().BoolVar(&includeAll, "all", false, "skip the top-N cut and print every insight")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the advice responder a question about an export",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	root.AddCommand(insightsCmd, askCmd, newTokenCmd())
	return root
}

func runInsights(cmd *cobra.Command, _ []string) error {
	export, err := loadRequiredExport()
	if err != nil {
		return err
	}
	cfg, err := domainconfig.LoadAnalyticsConfig(analyticsFile)
	if err != nil {
		return err
	}

	engine := insights.NewEngine(cfg)
	var out []insights.Insight
	if includeAll {
		out = engine.GenerateAll(export.Moments, export.Connections)
	} else {
		out = engine.Generate(export.Moments, export.Connections)
	}
	if out == nil {
		out = []insights.Insight{}
	}

	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"insights":        out,
		"momentCount":     len(export.Moments),
		"connectionCount": len(export.Connections),
		"generatedAt":     time.Now().UTC(),
	})
}

func runAsk(cmd *cobra.Command, args []string) error {
	export, err := loadRequiredExport()
	if err != nil {
		return err
	}
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question cannot be blank")
	}

	responder := advice.NewResponder()
	return writeJSON(cmd.OutOrStdout(), map[string]string{
		"question": question,
		"topic":    responder.Classify(question),
		"response": responder.Respond(question, export.Connections, export.Moments, export.Profile),
	})
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		issuer string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Mint a signed development token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			gen, err := auth.NewJWTGenerator(secret, issuer, []string{auth.DefaultAudience}, ttl)
			if err != nil {
				return err
			}
			token, err := gen.GenerateToken(args[0], email, []string{"authenticated"})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (defaults to $JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", "kindra-backend", "token issuer")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func loadRequiredExport() (*Export, error) {
	if exportFile == "" {
		return nil, fmt.Errorf("--file is required")
	}
	return LoadExport(exportFile)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
