// Package ruleset manages the user-authored award blocks.
//
// Blocks are edited as Drafts: loosely typed, YAML-friendly records that
// mirror what a user types (a mode word, free-form start/end numbers, a
// "1er | 2e | 3e" prize string). Normalize converts a Draft into an
// award.Block once, at the boundary, clamping positions and falling back to
// "no filter" for unknown filter values, so the award engine never has to
// reject input.
//
// A RuleSet is an ordered list of drafts plus the per-tournament
// multiple-winners policy. It supports the editing lifecycle (add, duplicate,
// delete, move up/down) and is persisted through the Storage interface.
package ruleset
