package commands

import (
	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

// Inspect is the interface for previewing which rules an event fires.
type Inspect interface {
	Execute(repo, refName string) []entities.TriggerReport
}

// InspectCommand reports, without writing anything, what an update of a ref
// would do under the rules in effect.
type InspectCommand struct {
	holder *entities.RuleSetHolder
}

// NewInspectCommand creates a new InspectCommand.
func NewInspectCommand(holder *entities.RuleSetHolder) *InspectCommand {
	return &InspectCommand{holder: holder}
}

func (it *InspectCommand) Execute(repo, refName string) []entities.TriggerReport {
	return it.holder.Load().Inspect(repo, refName)
}
