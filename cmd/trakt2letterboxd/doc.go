// Package main hosts the trakt2letterboxd CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the run logger, and wires the Trakt client, credential store and exporter
// for each command. Commands that touch the cached credential hold a file
// lock beside it for their whole run.
//
// Keep this package lean: behaviour lives in internal/trakt and
// internal/export, and commands only translate flags and render results.
package main
