// Package main hosts the blueprints CLI entrypoint and command graph.
//
// Each subcommand is one CI pipeline step against a blueprint repository:
// ingesting an issue submission, reconciling the database with the tree,
// re-indenting documents, auditing the repository, and managing sets. The
// command context resolves configuration, logging, the run lock, and the
// store once so subcommands only wire internal packages together.
package main
