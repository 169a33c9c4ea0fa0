// Package orders implements counterparty eligibility and order validation
// for the placement forms.
//
// Validation is synchronous and returns the first failing reason as a
// human-readable string; it never aggregates errors and never panics or
// throws across async boundaries. All balance checks use the available
// figure (total minus locked-in-open-orders) so funds committed to other
// open orders cannot be spent twice.
package orders
