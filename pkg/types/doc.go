// Package types defines the Cupboard and Table interfaces, the content-kind
// descriptor model, entity types, and standard error types for the Strata
// content-tree storage system.
package types
