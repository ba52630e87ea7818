// Package core defines the shared domain types for mvgen: build-graph
// artifacts, metric view specifications, project configuration, and run
// records. It has no dependencies on other mvgen packages so that every
// layer (loader, engine, CLI, state store) can share these types freely.
package core
