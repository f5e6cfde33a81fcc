// Package counter implements persistence for the connected-clients counter.
//
// The DynamoDB store holds a single row keyed by "counter" and mutates it
// exclusively through atomic ADD update expressions, so concurrent
// invocations serialize at the table. The Memory store backs tests and
// table-less local runs. No floor is enforced: the counter legitimately
// goes negative when leave deltas outrun recorded joins.
package counter
