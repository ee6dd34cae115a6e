package entities

// GitModulesPath is where the submodule configuration blob lives.
const GitModulesPath = ".gitmodules"

// SubmoduleEntry is one section of the .gitmodules blob.
type SubmoduleEntry struct {
	Path    string
	URL     string
	Branch  string
	Shallow bool
	Commit  ObjectID
}

// SkippedProject records a project left out of the superproject, and why.
type SkippedProject struct {
	Project ResolvedProject
	Reason  string
}

// SyncResult describes the commit written by one synchronization.
type SyncResult struct {
	DestRepo   string
	TargetRef  string
	Previous   ObjectID // ZeroID when the branch did not exist
	Commit     ObjectID
	Tree       ObjectID
	Outcome    RefUpdateResult
	Submodules []SubmoduleEntry
	Skipped    []SkippedProject
}
