// Package cli turns the ghostview command line into an app.Config. Help
// requests and usage errors surface as ExitError so that main decides the
// process exit code.
package cli
