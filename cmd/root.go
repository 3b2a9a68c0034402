package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/securevault/cli/internal/api"
	"github.com/securevault/cli/pkg"
	"github.com/securevault/cli/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ctrl *pkg.Ctrl

var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "SecureVault CLI",
	Long: `Manage files in a SecureVault encryption backend.

Stage files with tag and expiry metadata, submit them for upload and
server-side encryption, browse the file catalog, and open decrypted
previews.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		var err error
		ctrl, err = pkg.NewCtrl(pkg.Params{
			DBPath: viper.GetString("db_path"),
			API: api.Params{
				Endpoint: viper.GetString("endpoint"),
				Host:     viper.GetString("host"),
				Port:     viper.GetInt("port"),
				Debug:    viper.GetBool("debug"),
			},
			ShareCommand: viper.GetString("share_command"),
		})
		return err
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if ctrl != nil {
			if err := ctrl.Close(); err != nil {
				fmt.Printf("Warning: failed to close store: %v\n", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("endpoint", "", "API base URL override")
	rootCmd.PersistentFlags().String("host", "localhost", "API host (used when no endpoint override is set)")
	rootCmd.PersistentFlags().Int("port", model.DefaultAPIPort, "API port (used when no endpoint override is set)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log HTTP requests and responses")
}

func initConfig(cmd *cobra.Command) error {
	configDir, err := cliConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.SetEnvPrefix("VAULT")
	viper.AutomaticEnv()
	viper.SetDefault("db_path", filepath.Join(configDir, "vault.db"))
	viper.SetDefault("download_dir", ".")

	var bindErr error
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return bindErr
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func cliConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, ".securevault"), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
