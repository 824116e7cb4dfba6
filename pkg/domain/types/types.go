package types

// Version is the application version, overridden at build time via
// -ldflags "-X github.com/naba-lab/parcellate/pkg/domain/types.Version=...".
var Version = "dev"

// AppName is the CLI command name.
const AppName = "parcellate"
