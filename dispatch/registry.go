package dispatch

import (
	"cmp"
	"github.com/saylorsolutions/gevent/box"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Registry maps a [Key] to an ordered list of [Listener].
// Committing an event invokes every listener registered for its key synchronously, in registration order.
//
// A Registry may be shared between goroutines, but listeners are always called in the committing goroutine.
// The internal lock is never held while a listener runs, so listeners may register, remove, and commit freely.
type Registry struct {
	strict bool
	log    *slog.Logger
	inst   Instrument

	mux         sync.RWMutex
	entries     map[Key][]*Subscription
	errHandlers []func(error)
}

// NewRegistry creates a new [Registry].
// This will panic if any [ConfigFunc] returns an error.
func NewRegistry(configFuncs ...ConfigFunc) *Registry {
	opts := options{
		log:  slog.Default(),
		inst: nopInstrument{},
	}
	for _, fn := range configFuncs {
		if fn == nil {
			continue
		}
		if err := fn(&opts); err != nil {
			panic(err)
		}
	}
	return &Registry{
		strict:  opts.conf.Strict,
		log:     opts.log,
		inst:    opts.inst,
		entries: map[Key][]*Subscription{},
	}
}

// Subscription is a single registration of a [Listener] for a [Key].
type Subscription struct {
	key      Key
	owner    Owner
	listener Listener
	reg      *Registry
}

func (s *Subscription) Key() Key {
	return s.key
}

func (s *Subscription) Owner() Owner {
	return s.owner
}

// Release removes only this Subscription from its [Registry].
// This is safe to call multiple times, and on a nil Subscription.
func (s *Subscription) Release() {
	if s == nil || s.reg == nil {
		return
	}
	s.reg.release(s)
}

// Register appends the listener to the list for key.
// No de-duplication is done, so registering the same listener twice will invoke it twice.
//
// A nil listener (including a nil pointer held in the interface), or a listener with a zero [Owner], is ignored and nil is returned.
func (r *Registry) Register(key Key, listener Listener) *Subscription {
	if isNilListener(listener) {
		return nil
	}
	owner := listener.Owner()
	if owner.IsZero() {
		return nil
	}
	sub := &Subscription{
		key:      key,
		owner:    owner,
		listener: listener,
		reg:      r,
	}
	r.mux.Lock()
	r.entries[key] = append(r.entries[key], sub)
	count := len(r.entries[key])
	r.mux.Unlock()

	r.inst.ListenersChanged(key, count)
	r.log.Debug("Registered listener", "namespace", key.Namespace, "event", key.Event, "owner", owner, "listeners", count)
	return sub
}

// RegisterFunc binds fn with [BindFunc] and registers it for key.
// A nil fn or zero owner is ignored, and a nil [Subscription] is returned.
func (r *Registry) RegisterFunc(owner Owner, key Key, fn any) (*Subscription, error) {
	listener, err := BindFunc(owner, fn)
	if err != nil {
		return nil, err
	}
	return r.Register(key, listener), nil
}

// RegisterErrorHandler adds a function that is called with each [ListenerError] that occurs during a commit.
// Error handlers are not called in strict mode, since the failure panics instead.
func (r *Registry) RegisterErrorHandler(handler func(error)) {
	if handler == nil {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.errHandlers = append(r.errHandlers, handler)
}

// Commit invokes every listener registered for key with args, in registration order.
// Listener failures are logged and passed to error handlers, and don't stop other listeners from running.
// In strict mode a listener failure panics with a [*ListenerError].
//
// Listener parameters can't be pointers, so a pointer argument only reaches listeners that accept it as an interface.
// Any other listener fails its type check for that argument.
func (r *Registry) Commit(key Key, args ...any) {
	_ = r.commit(key, args)
}

// CommitResult is the same as [Registry.Commit], but it also returns a [*CommitError] if any listener failed.
func (r *Registry) CommitResult(key Key, args ...any) error {
	return r.commit(key, args)
}

func (r *Registry) commit(key Key, args []any) error {
	params := boxArgs(args)
	snapshot := r.snapshot(key)
	if len(snapshot) == 0 {
		return nil
	}
	r.inst.Committed(key, len(snapshot))
	r.log.Debug("Committing event", "namespace", key.Namespace, "event", key.Event, "listeners", len(snapshot), "args", len(params))

	failures := &CommitError{Key: key}
	for i, sub := range snapshot {
		err := sub.listener.Execute(params)
		if err == nil {
			continue
		}
		lerr := &ListenerError{
			Key:      key,
			Owner:    sub.owner,
			Position: i,
			Err:      err,
		}
		if r.strict {
			panic(lerr)
		}
		r.report(lerr)
		failures.add(lerr)
	}
	return failures.result()
}

func boxArgs(args []any) []box.Value {
	if len(args) == 0 {
		return nil
	}
	params := make([]box.Value, len(args))
	for i, arg := range args {
		params[i] = box.OfAny(arg)
	}
	return params
}

func isNilListener(listener Listener) bool {
	if listener == nil {
		return true
	}
	rv := reflect.ValueOf(listener)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func (r *Registry) snapshot(key Key) []*Subscription {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return slices.Clone(r.entries[key])
}

func (r *Registry) report(err *ListenerError) {
	r.log.Error("Listener failed",
		"namespace", err.Key.Namespace,
		"event", err.Key.Event,
		"owner", err.Owner,
		"position", err.Position,
		"reason", FailureReason(err),
		"error", err.Err,
	)
	r.inst.ListenerFailed(err.Key, err)
	r.mux.RLock()
	handlers := slices.Clone(r.errHandlers)
	r.mux.RUnlock()
	for _, handler := range handlers {
		handler(err)
	}
}

// RemoveAllForOwner removes every listener bound to owner, across all keys.
// A zero owner is ignored, and calling this again for the same owner does nothing.
func (r *Registry) RemoveAllForOwner(owner Owner) {
	if owner.IsZero() {
		return
	}
	changed := map[Key]int{}
	r.mux.Lock()
	for key, subs := range r.entries {
		kept := slices.DeleteFunc(subs, func(sub *Subscription) bool {
			return sub.owner == owner
		})
		if len(kept) == len(subs) {
			continue
		}
		changed[key] = len(kept)
		if len(kept) == 0 {
			delete(r.entries, key)
		} else {
			r.entries[key] = kept
		}
	}
	r.mux.Unlock()

	for key, count := range changed {
		r.inst.ListenersChanged(key, count)
	}
	if len(changed) > 0 {
		r.log.Debug("Removed listeners for owner", "owner", owner, "keys", len(changed))
	}
}

func (r *Registry) release(sub *Subscription) {
	r.mux.Lock()
	subs := r.entries[sub.key]
	idx := slices.Index(subs, sub)
	if idx < 0 {
		r.mux.Unlock()
		return
	}
	subs = slices.Delete(subs, idx, idx+1)
	if len(subs) == 0 {
		delete(r.entries, sub.key)
	} else {
		r.entries[sub.key] = subs
	}
	count := len(subs)
	r.mux.Unlock()

	r.inst.ListenersChanged(sub.key, count)
	r.log.Debug("Released listener", "namespace", sub.key.Namespace, "event", sub.key.Event, "owner", sub.owner, "listeners", count)
}

// Count returns the number of listeners currently registered for key.
func (r *Registry) Count(key Key) int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return len(r.entries[key])
}

// Keys returns every key with at least one listener, sorted by namespace and then event.
func (r *Registry) Keys() []Key {
	r.mux.RLock()
	keys := make([]Key, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	r.mux.RUnlock()
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Namespace, b.Namespace); c != 0 {
			return c
		}
		return cmp.Compare(a.Event, b.Event)
	})
	return keys
}

// Listen0 binds fn with [Bind0] and registers it with r.
// A nil Registry, nil fn, or zero owner results in a nil [Subscription].
func Listen0(r *Registry, owner Owner, key Key, fn func()) *Subscription {
	return listen(r, key, Bind0(owner, fn))
}

// Listen1 binds fn with [Bind1] and registers it with r.
// A nil Registry, nil fn, or zero owner results in a nil [Subscription].
func Listen1[A any](r *Registry, owner Owner, key Key, fn func(A)) *Subscription {
	return listen(r, key, Bind1(owner, fn))
}

func Listen2[A, B any](r *Registry, owner Owner, key Key, fn func(A, B)) *Subscription {
	return listen(r, key, Bind2(owner, fn))
}

func Listen3[A, B, C any](r *Registry, owner Owner, key Key, fn func(A, B, C)) *Subscription {
	return listen(r, key, Bind3(owner, fn))
}

func Listen4[A, B, C, D any](r *Registry, owner Owner, key Key, fn func(A, B, C, D)) *Subscription {
	return listen(r, key, Bind4(owner, fn))
}

func listen(r *Registry, key Key, listener Listener) *Subscription {
	if r == nil {
		return nil
	}
	return r.Register(key, listener)
}
