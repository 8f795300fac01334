package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariejan/apollo/internal/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use: "config",
		Short: "Inspect or edit the configuration file",
	}
	cmd.AddCommand(
		newConfigShowCmd(flags),
		newConfigInitCmd(flags),
		newConfigPathCmd(flags),
		newConfigGetCmd(flags),
		newConfigSetCmd(flags),
	)
	return cmd
}

func resolveConfigPath(flags *globalFlags) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}
	return config.DefaultPath()
}

func newConfigShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "show",
		Short: "Print the resolved configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(flags)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return userErrf("%w", err)
			}
			tmp, err := tomlString(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tmp)
			return nil
		},
	}
}

func newConfigInitCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(flags)
			if err != nil {
				return err
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", path)
			return nil
		},
	}
}

func newConfigPathCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "path",
		Short: "Print the resolved config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "get <dotted.key>",
		Short: "Print a single configuration value",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(flags)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return userErrf("%w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Get(cfg, args[0]))
			return nil
		},
	}
}

func newConfigSetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use: "set <dotted.key> <value>",
		Short: "Update a single configuration value and save",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(flags)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return userErrf("%w", err)
			}
			if err := config.Set(cfg, args[0], args[1]); err != nil {
				return userErrf("%w", err)
			}
			if err := config.Validate(cfg); err != nil {
				return userErrf("%w", err)
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], config.Get(cfg, args[0]))
			return nil
		},
	}
}
