package entities

// TriggerEvent reports that refName of repository changed.
type TriggerEvent struct {
	Repository string
	RefName    string
	// Manual events come from an operator and stop at the first failing
	// rule; ref-updated events log failures and carry on.
	Manual bool
}
