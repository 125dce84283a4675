// Package strata holds module-wide metadata.
package strata

// Version is the strata release version.
const Version = "v0.1.0"
