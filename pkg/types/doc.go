// Package types defines the entity types, configuration, and standard
// errors shared by the satchel storage layer and its CLI.
package types
