package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the signed-in account",
}

var accountLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the API bearer token",
	Long: `Store the bearer token issued by the identity provider.

The token is read from --token or, when the flag is absent, from stdin.
It is kept in the system keyring, never on disk.

Examples:
  vault account login --token=eyJhbGciOi...
  cat token.txt | vault account login`,
	RunE: runLogin,
}

var accountLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear all local state",
	Long: `Remove the stored token and clear the staged set, the catalog
mirror, and any open preview.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := ctrl.Tokens.Clear(); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}
		ctrl.ResetState()
		color.Green("Signed out")
		return nil
	},
}

var accountStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an account is signed in",
	Run: func(_ *cobra.Command, _ []string) {
		if _, ok := ctrl.Tokens.Token(); !ok {
			color.Yellow("Not signed in")
			return
		}
		color.Green("Signed in")
		if last, err := ctrl.LastCatalogSync(); err == nil && !last.IsZero() {
			fmt.Printf("Last catalog sync: %s\n", last.Local().Format("2006-01-02 15:04:05"))
		}
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountLogoutCmd)
	accountCmd.AddCommand(accountStatusCmd)

	accountLoginCmd.Flags().String("token", "", "Bearer token issued by the identity provider")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Print("Token: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			token = strings.TrimSpace(string(raw))
		} else {
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read token from stdin: %w", err)
			}
			token = strings.TrimSpace(line)
		}
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	if err := ctrl.Tokens.SetToken(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	color.Green("Signed in")
	return nil
}
