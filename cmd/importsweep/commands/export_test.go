package commands

// NewRootCommandWithRunner exposes the command tree with an injected runner.
var NewRootCommandWithRunner = newRootCommand
