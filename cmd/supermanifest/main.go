package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/supermanifest/internal"
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
	"github.com/rios0rios0/supermanifest/internal/infrastructure/controllers"
)

func buildRootCommand(settings *entities.SettingsHolder) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "supermanifest",
		Short: "Keep superproject submodules in step with manifests",
		Long: `Rewrite the submodules of superproject repositories whenever a
tracked branch of a manifest repository changes.

Each rule of the rule document binds a manifest (repository, ref, path)
to a destination branch. The manifest and everything it imports are
flattened into one set of projects, committed as gitlinks plus a
.gitmodules file on top of the destination branch.

Usage modes:
  supermanifest watch                 Poll and update (service)
  supermanifest sync <repo> <ref>     Update once for a ref
  supermanifest inspect <repo> <ref>  Show what an update would fire
  supermanifest rules                 List the rules in effect`,
		SilenceUsage: true,
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if verbose, _ := command.Flags().GetBool("verbose"); verbose {
				logger.SetLevel(logger.DebugLevel)
			}
			if !command.HasParent() || command.Name() == "help" {
				return nil
			}
			return loadSettings(command, settings)
		},
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func loadSettings(cmd *cobra.Command, holder *entities.SettingsHolder) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			logger.Errorf(
				"no config file found: %v\nSpecify one with --config or create supermanifest.yaml",
				err,
			)
			return err
		}
	}

	logger.Infof("Using config file: %s", cfgPath)
	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		return err
	}
	holder.Store(settings)
	return nil
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Run: func(command *cobra.Command, arguments []string) {
				ctrl.Execute(command, arguments)
			},
		}

		switch typed := ctrl.(type) {
		case *controllers.SyncController, *controllers.InspectController:
			subCmd.Args = cobra.ExactArgs(2) //nolint:mnd // repository and ref
		case *controllers.RulesController:
			subCmd.Args = cobra.NoArgs
		case *controllers.WatchController:
			subCmd.Args = cobra.NoArgs
			typed.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	appContext, err := injectAppContext()
	if err != nil {
		logger.Fatalf("Cannot start 'supermanifest': %s", err)
	}
	cobraRoot := buildRootCommand(appContext.GetSettings())

	// Add all subcommands
	addSubcommands(cobraRoot, appContext)

	if err = cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'supermanifest': %s", err)
	}
}
