// Package rbeas ties together the reassigned bandwidth-enhanced
// additive sound model: analysis turns samples into partials,
// channelize/distill/morph/manipulate reshape partial lists, and
// synthesis renders them back to samples. Each stage is an
// independent package; this file just pins the module version other
// packages and callers can report.
package rbeas

// Version is the module's semantic version string.
const Version = "0.1.0"
