// Package award resolves award blocks against tournament standings.
//
// A Block describes one award rule: which participants are eligible
// (tournament scope, categories, gender, unrated markers, rating bounds) and
// which positions of the eligible, ranked list receive a prize. Resolve turns
// a participant list and an ordered block list into one Assignment per prize
// slot, in block-then-slot order.
//
// Candidates are ranked by points, then Buchholz, then performance, then
// rating, all descending, with absent values ranked last; a full tie falls
// back to the tournament rank.
//
// When a tournament disallows multiple prizes per participant, every winner
// is excluded from all later slots of blocks sharing that tournament scope.
// Exclusions never cross scopes, which is what lets ResolveParallel evaluate
// scopes concurrently.
package award
