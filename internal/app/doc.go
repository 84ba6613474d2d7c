// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the resolution lifecycle: loading the
// catalog and the installed database, running the resolver, rendering the
// plan and optionally persisting the bonus flags. It is decoupled from any
// specific entrypoint like a CLI.
package app
