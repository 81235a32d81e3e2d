/*
Package box provides type-erased value boxes so values of different types can share one container.

A [Value] remembers the value it holds along with the type it was boxed as.
Retrieving a value requires stating the type that's expected with [As], [MustAs], or [AsType].
The rules for retrieval are the same as a Go type assertion:
  - A concrete type must match exactly.
  - An interface type matches any value that implements it.
  - A nil value may be retrieved as any type that can be nil, producing that type's zero value.

A mismatch is reported with [ErrTypeMismatch], so the caller may decide whether it's fatal.
Use [MustAs] when a mismatch should be treated as a broken contract and panic instead.
*/
package box
