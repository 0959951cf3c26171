// Package main hosts the cleave CLI entrypoint and command graph.
//
// The Cobra-based command tree covers planning, execution, plan and history
// rendering, dependency preflight, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands stay declarative; the planning and cutting logic lives in the
// internal packages.
package main
