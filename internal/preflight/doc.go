// Package preflight audits a blueprint repository without changing it.
//
// The "blueprints check" command runs every check and fails when any of them
// does: the tree root must be accessible, the directory layout must follow
// the bucket/series/number convention, every document must validate against
// its folder listing, and every stored set must still hold two or more
// blueprints. Checks that find problems report them as violations so the
// caller can print all of them at once.
package preflight
