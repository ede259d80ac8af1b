// Package types defines the Journal interface, the Run and Event records
// it stores, CLI configuration, and the standard errors shared by the
// slots tooling.
package types
