package main

import (
	"strings"

	"github.com/spf13/cobra"

	"stemsplit/internal/config"
	"stemsplit/internal/pipeline"
	"stemsplit/internal/runconfig"
)

type runFlags struct {
	output   string
	model    string
	mp3      bool
	twoStems string
	device   string
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(defaultCollaborators())
}

func newRootCommandWith(collab collaborators) *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag, collab)
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:           "stemsplit <input>",
		Short:         "Split an audio file into stems with Demucs",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeparation(cmd, ctx, flags, args[0])
		},
	}

	rootCmd.Flags().StringVarP(&flags.output, "output", "o", defaults.Output.Dir, "Output directory")
	rootCmd.Flags().StringVarP(&flags.model, "model", "m", defaults.Separator.Model, "Model name")
	rootCmd.Flags().BoolVar(&flags.mp3, "mp3", false, "Save output as MP3 instead of WAV")
	rootCmd.Flags().StringVar(&flags.twoStems, "two-stems", "", "Extract only the selected stem and everything else ("+strings.Join(targetNames(), "|")+")")
	rootCmd.Flags().StringVar(&flags.device, "device", "", "Device to use (cuda/cpu; default: cuda when available)")

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runSeparation(cmd *cobra.Command, ctx *commandContext, flags runFlags, input string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := mergeOptions(cmd, cfg, flags, input)
	runCfg, err := runconfig.Resolve(cmd.Context(), opts, ctx.collab.newProber(cfg), logger)
	if err != nil {
		return err
	}

	encoder, err := ctx.collab.newEncoder(cfg)
	if err != nil {
		return err
	}
	sep := ctx.collab.newSeparator(cfg, logger)

	_, err = pipeline.New(sep, encoder, cmd.OutOrStdout(), logger).Run(cmd.Context(), runCfg)
	return err
}

// mergeOptions layers explicitly set flags over the loaded configuration.
func mergeOptions(cmd *cobra.Command, cfg *config.Config, flags runFlags, input string) runconfig.Options {
	opts := runconfig.Options{
		Input:     input,
		OutputDir: cfg.Output.Dir,
		Model:     cfg.Separator.Model,
		Device:    cfg.Separator.Device,
		MP3:       cfg.Output.MP3,
		TwoStems:  flags.twoStems,
	}
	changed := cmd.Flags().Changed
	if changed("output") {
		opts.OutputDir = flags.output
	}
	if changed("model") {
		opts.Model = flags.model
	}
	if changed("mp3") {
		opts.MP3 = flags.mp3
	}
	if changed("device") {
		opts.Device = flags.device
	}
	return opts
}

func targetNames() []string {
	names := make([]string, len(runconfig.TwoStemTargets))
	for i, target := range runconfig.TwoStemTargets {
		names[i] = string(target)
	}
	return names
}
