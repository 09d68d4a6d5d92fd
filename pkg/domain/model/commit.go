package model

// CommitResult represents the outcome of a commit step
type CommitResult struct {
	Committed bool   // False when the working tree had no changes
	Hash      string // Commit hash when committed
	Message   string // Commit message when committed
	Pushed    bool   // True when the commit was pushed to the remote
}
