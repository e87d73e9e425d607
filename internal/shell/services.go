// Package shell provides argshell's interactive shell: a readline loop with
// tab completion that runs declared commands and the shell's own
// backslash commands, plus the service setup shared with the CLI.
package shell

import (
	"argshell/internal/context"
	"argshell/internal/logger"
	"argshell/internal/services"
	"argshell/internal/store"
)

// InitializeServices sets up all required services for argshell. A non-nil
// st replaces the definition store.
func InitializeServices(testMode bool, st store.Store) error {
	context.GetGlobalContext().SetTestMode(testMode)

	registry := services.GetGlobalRegistry()
	defaults := []services.Service{
		services.NewArgumentTypeService(),
		services.NewDefinitionService(nil),
		services.NewCommandService(),
		services.NewAutoCompleteService(),
		services.NewMarkdownService(),
	}
	// Registered again when tests cleared the registry
	for _, s := range defaults {
		if registry.HasService(s.Name()) {
			continue
		}
		if err := registry.RegisterService(s); err != nil {
			return err
		}
	}

	if err := registry.InitializeAll(); err != nil {
		return err
	}

	if st != nil {
		definitions, err := services.GetGlobalDefinitionService()
		if err != nil {
			return err
		}
		definitions.SetStore(st)
	}

	complete, err := services.GetGlobalAutoCompleteService()
	if err != nil {
		return err
	}
	complete.SetShellCommands(CommandNames())

	logger.Debug("Services initialized")
	return nil
}
