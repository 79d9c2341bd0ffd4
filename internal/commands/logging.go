package commands

import (
	"strings"

	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

const commandModuleRoot = "openbento.commands"

// CommandLogger scopes a logger to one command group, for example
// openbento.commands.export. An empty group yields the shared commands logger.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		return logging.CommandsLogger(provider)
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+group), map[string]any{
		"command_group": group,
	})
}
