// Package submission turns a blueprint submission issue into a typed record.
//
// Issues arrive as the JSON-encoded markdown body produced by the submission
// form. The body is matched against the canonical section layout, optional
// answers left as the form's "_No response_" marker are dropped, Markdown
// links are reduced to their URLs, and the embedded blueprint is decoded so
// later stages can stamp and validate it.
package submission
