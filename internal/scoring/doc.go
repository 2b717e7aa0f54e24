// Package scoring turns a questionnaire response into a risk assessment.
//
// Five risk factors add weights looked up by answer value, three protective
// factors subtract fixed amounts, and the result is clamped to [0,100]. The
// risk level is chosen by an ordered rule list in which score thresholds are
// interleaved with the suicidal-thoughts override, so rule order is observable.
// Each level carries a fixed recommendation set.
//
// Everything here is pure: no I/O, no clock, no shared mutable state.
package scoring
