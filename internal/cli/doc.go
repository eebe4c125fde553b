// Package cli implements the command-line interface for palmares.
//
// The cli package provides the Cobra-based CLI: fetching and caching
// tournament standings, browsing them with filters, authoring the award
// rule set, and resolving the rule set into a prize list rendered as text
// or JSON. It coordinates the scraper, normalize, storage, ruleset, award
// and report packages.
package cli
