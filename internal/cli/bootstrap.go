package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/layerconf/internal/appconfig"
	"github.com/shinji-kodama/layerconf/internal/container"
	"github.com/shinji-kodama/layerconf/internal/directory"
	"github.com/shinji-kodama/layerconf/internal/logger"
	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/provider"
	"github.com/shinji-kodama/layerconf/internal/settings"
	"github.com/shinji-kodama/layerconf/internal/source"
)

// app is the state shared by the subcommands once the configuration of the
// active environment has been registered.
type app struct {
	config    *appconfig.Config
	log       *logger.Logger
	source    provider.Source
	container *container.Map
	registry  *directory.Registry
}

// bootstrap resolves the tool settings, registers the active variant into a
// fresh container and materializes its directories.
//
// Failures are returned as *model.CLIError with ExitGeneralError.
func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := appconfig.Load(&appconfig.Config{
		Environment: environment,
		ConfigDir:   configDir,
		Verbose:     verbose,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid settings", err)
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Verbose)
	log.Debug().
		Str("environment", cfg.Environment).
		Str("config_dir", cfg.ConfigDir).
		Msg("settings resolved")

	// Step 1: Load the variant of the active environment.
	if info, statErr := os.Stat(cfg.ConfigDir); statErr != nil || !info.IsDir() {
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("configuration directory %q does not exist", cfg.ConfigDir))
	}

	variant, err := source.NewDir(cfg.ConfigDir).Get(cfg.Environment)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to register configuration", err)
	}

	src, err := provider.NewSource(variant, log.Diagnostics())
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to register configuration", err)
	}

	// Step 2: Register it into a fresh container.
	c := container.NewMap(map[string]any{container.DefaultEnvironmentKey: cfg.Environment})
	registry, err := container.NewServiceProvider(src, log.Component("container")).Register(c)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to register configuration", err)
	}

	return &app{
		config:    cfg,
		log:       log,
		source:    src,
		container: c,
		registry:  registry,
	}, nil
}

// applySettings registers the variant's framework settings into the
// container. Variants without a settings section are skipped.
func (a *app) applySettings() error {
	err := settings.Register(a.container, a.source, container.DefaultEnvironmentKey)

	var capErr *model.CapabilityError
	if errors.As(err, &capErr) {
		a.log.Debug().Msg("variant has no framework settings")
		return nil
	}
	return err
}
