// Package scraper provides HTTP fetching and HTML parsing for FFE tournament
// standings pages.
//
// The scraper fetches a "papi" results page (the standings grid published by
// the French chess federation) and extracts the tournament title and one Row
// of raw cell text per ranked player. Rows are left as text; numeric coercion
// and category decoding belong to the normalize package.
package scraper
