// Package identity decides which series a submission belongs to and which
// blueprint number it receives.
//
// Series are matched on external database identifiers first and on
// name plus year second; an unmatched submission creates a series, committed
// immediately so the numbering step sees it.
package identity
