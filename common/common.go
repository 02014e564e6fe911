// Package common holds values shared by every binary in the module.
package common

// PackageName is the name metrics and logs are reported under.
const PackageName = "prio-server"

// Version is overridden at build time with -ldflags.
var Version = "dev"
