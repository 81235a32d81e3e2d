/*
Package dispatch provides an in-process, synchronous event dispatcher keyed by namespace and event name.

# Primitives

A [Key] is a namespace and an event name.
Listeners are registered for a [Key], and events are committed to a [Key] with any number of arguments.

Every [Listener] is bound to an [Owner], which is an opaque identity created with [NewOwner].
The entity that registers listeners should call [Registry.RemoveAllForOwner] before it goes away,
or release individual registrations with [Subscription.Release].

Callbacks are bound with [Bind0] through [Bind4] when the parameter types are known at compile time,
or with [BindFunc] for any other signature.
Arguments are carried to listeners in a [box.Value], and each listener unboxes them to the exact types its callback expects.
Pointer parameters and arguments are rejected with a panic, since a commit should only pass values.

# Commit Flow

[Registry.Commit] takes a snapshot of the listeners for a key, and then calls each of them in registration order before returning.
Listeners that register or remove listeners while they're running won't affect the commit in progress, only later commits.

If the arguments of a commit don't match what a listener expects, then that listener fails and the others still run.
The failure is logged, reported to any handler added with [Registry.RegisterErrorHandler], and returned from [Registry.CommitResult].
Use [Strict] (or DISPATCH_STRICT=true with [ConfigFromEnv]) to panic on the first failure instead.

# Process-wide Registry

[Default] returns a lazily created, process-wide [Registry] for applications that want a single one.
The host application may use [OnStart] and [OnStop] to control when it's available.
The package level [Register], [Commit], and [RemoveAllForOwner] functions use the default registry,
and silently do nothing when it's stopped or when given a zero [Owner] or nil callback.

Passing an explicitly constructed [Registry] to components is generally preferred, since it avoids hidden global state.
*/
package dispatch
