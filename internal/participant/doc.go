// Package participant provides the canonical standings types shared by the
// scraper, the normalizer, the award engine, and the report renderer.
//
// A Participant is one appearance of a player in one tournament. Optional
// numeric columns (points, Buchholz, performance, rating) are carried as
// Metric values so that an empty cell stays distinct from zero. Each
// participant carries a synthetic stable ID derived from its tournament ID and
// source row, generated once at normalization time.
package participant
