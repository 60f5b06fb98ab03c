// Package version parses required-version specs and matches concrete Node
// versions against them.
//
// A spec is classified by the first rule that applies:
//
//	18.17.0        exact (string equality after stripping "v")
//	>=18.0.0       comparison: >=, <=, >, <, =
//	^18.17.0       same major, at least the given version
//	~18.17.0       same major and minor, at least the given patch
//	lts/hydrogen   alias, never matches here
//	18, 18.2, 18.x partial, missing or wildcard components match anything
//
// Anything else only matches by exact equality. Non-numeric components parse
// as 0 so comparison is total.
//
// A partial match reports the spec itself as the target version rather than
// the current version.
package version
