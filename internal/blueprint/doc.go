// Package blueprint defines the blueprint document and validates it.
//
// A document is decoded into typed sections and checked in two layers. Field
// shapes (lengths, enums, ranges) come from struct tags evaluated by
// go-playground/validator. Cross-references are checked by walking the
// document as a flat list of tagged sections (series, episode, template,
// font), each exposing the template and font indices it references and the
// paired lists it carries, which turns coverage into a set comparison.
//
// Validation never stops at the first problem: every check contributes
// Violations to a Result so callers can report everything at once. The file
// reference check needs the folder listing, which callers gather themselves.
package blueprint
