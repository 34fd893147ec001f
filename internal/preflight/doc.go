// Package preflight provides readiness checks for the tools and paths a
// separation run depends on.
//
// The "stemsplit check" command runs RunAll and renders the results. A
// normal separation does not run preflight; failures there surface as
// processing errors instead.
package preflight
