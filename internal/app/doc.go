// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the execution lifecycle: load the diagram
// library, run its open/close script against a diagram, publish every
// committed delta, and optionally export the final diagram. It is decoupled
// from any specific entrypoint like a CLI.
package app
