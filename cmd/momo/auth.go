package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/momo-ledger/internal/cli"
	"github.com/Veraticus/momo-ledger/internal/common"
	"github.com/Veraticus/momo-ledger/internal/config"
	"github.com/Veraticus/momo-ledger/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google consent URL to open in your browser
2. Wait for the redirect on a local callback server
3. Save the refresh token to your config file

You'll need to run this once before "momo export sheets".`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("listen", "localhost:8085", "address of the local callback server")
	cmd.Flags().Duration("timeout", 5*time.Minute, "how long to wait for the browser flow")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	clientID := firstSet(
		flagString(cmd, "client-id"),
		viper.GetString("sheets.client_id"),
		os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	clientSecret := firstSet(
		flagString(cmd, "client-secret"),
		viper.GetString("sheets.client_secret"),
		os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))

	if clientID == "" || clientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found. Set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret",
			common.ErrMissingConfig)
	}

	listen, _ := cmd.Flags().GetString("listen")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	tokenFile := filepath.Join(config.DefaultConfigDir(), "sheets-token.json")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	token, err := sheets.Authenticate(ctx, sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		ListenAddr:   listen,
		Timeout:      timeout,
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.client_id", clientID)
	viper.Set("sheets.client_secret", clientSecret)
	viper.Set("sheets.refresh_token", token.RefreshToken)

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file with refresh token", "error", err)
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Could not save the refresh token; set sheets.refresh_token or GOOGLE_SHEETS_REFRESH_TOKEN yourself"))
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Google Sheets authentication complete"))
	return nil
}

func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.DefaultConfigDir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
