// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tailor-cli/internal/config"
	"tailor-cli/internal/issue"
)

// newConfigCommand creates the `tailor config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tailor configuration",
		Long: `Manage tailor configuration.

Configuration is stored in:
  - Linux: ~/.config/tailor/config.cue
  - macOS: ~/Library/Application Support/tailor/config.cue
  - Windows: %APPDATA%\tailor\config.cue`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfigFile(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(cmd)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadForConfigCommand(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

// loadForConfigCommand loads the configuration for config subcommands,
// honoring the root --config flag.
func loadForConfigCommand(ctx context.Context, app *App) (*config.Config, error) {
	return app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

func showConfig(cmd *cobra.Command, app *App) error {
	stdout := cmd.OutOrStdout()

	cfg, err := loadForConfigCommand(cmd.Context(), app)
	if err != nil {
		renderServiceError(cmd.ErrOrStderr(), newServiceError(err, issue.ConfigLoadFailedId, styledErrorLine(err, verbose)))
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(stdout, headerStyle.Render("Current Configuration"))

	cfgDir, dirErr := config.ConfigDir()
	switch {
	case cfgFile != "":
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Config file"), cfgFile)
	case dirErr == nil && fileExistsCheck(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)):
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Config file"),
			filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	default:
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("log_level"), SuccessStyle.Render(cfg.LogLevel.String()))

	stateDir := cfg.StateDir.String()
	if stateDir == "" {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("state_dir"), SubtitleStyle.Render("(platform default)"))
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("state_dir"), SuccessStyle.Render(stateDir))
	}

	workRoot := cfg.WorkRoot.String()
	if workRoot == "" {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("work_root"), SubtitleStyle.Render("(current directory)"))
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", CmdStyle.Render("work_root"), SuccessStyle.Render(workRoot))
	}

	return nil
}

func initConfigFile(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n",
		successIcon, filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func setConfigValue(cmd *cobra.Command, app *App, key, value string) error {
	cfg, err := loadForConfigCommand(cmd.Context(), app)
	if err != nil {
		return err
	}

	switch key {
	case "log_level":
		level := config.LogLevel(value)
		if ok, errs := level.IsValid(); !ok {
			return fmt.Errorf("invalid log_level: %w", errs[0])
		}
		cfg.LogLevel = level

	case "state_dir":
		dir := config.StateDirPath(value)
		if ok, errs := dir.IsValid(); !ok {
			return fmt.Errorf("invalid state_dir: %w", errs[0])
		}
		cfg.StateDir = dir

	case "work_root":
		root := config.WorkRootPath(value)
		if ok, errs := root.IsValid(); !ok {
			return fmt.Errorf("invalid work_root: %w", errs[0])
		}
		cfg.WorkRoot = root

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: log_level, state_dir, work_root", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", successIcon, key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
