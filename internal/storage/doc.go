// Package storage provides JSON-based persistence for fetched standings.
//
// Each tournament is stored in its own file (standings_<id>.json) under the
// data directory, so prize resolution can be rerun without fetching the
// results pages again. The default storage location is
// ~/.local/share/palmares/.
package storage
