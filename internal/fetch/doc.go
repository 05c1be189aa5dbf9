// Package fetch downloads the files a submission links to: preview images
// and font archives. Every download is bounded in time and size, and any
// failure is returned to the caller so the submission can be abandoned as a
// whole.
package fetch
