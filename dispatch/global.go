package dispatch

import "sync"

var (
	defaultMux      sync.Mutex
	defaultRegistry *Registry
	defaultStopped  bool
)

// Default returns the process-wide [Registry], creating it on first use.
// After [OnStop] is called, Default returns nil until [OnStart] is called again.
func Default() *Registry {
	defaultMux.Lock()
	defer defaultMux.Unlock()
	if defaultStopped {
		return nil
	}
	if defaultRegistry == nil {
		defaultRegistry = NewRegistry()
	}
	return defaultRegistry
}

// OnStart is a lifecycle hook for the host application.
// It replaces the process-wide [Registry] with a new one using the given configuration.
func OnStart(configFuncs ...ConfigFunc) {
	reg := NewRegistry(configFuncs...)
	defaultMux.Lock()
	defer defaultMux.Unlock()
	defaultRegistry = reg
	defaultStopped = false
}

// OnStop is a lifecycle hook for the host application.
// It drops the process-wide [Registry], and all package level functions do nothing until [OnStart] is called.
func OnStop() {
	defaultMux.Lock()
	defer defaultMux.Unlock()
	defaultRegistry = nil
	defaultStopped = true
}

// Register binds fn to owner with [BindFunc] and registers it with the [Default] registry.
// This does nothing if the owner is zero, fn is nil, or the default registry is stopped.
//
// An fn that can't be bound, like one with pointer parameters, is a programming error and will panic.
func Register(owner Owner, namespace, event string, fn any) *Subscription {
	reg := Default()
	if reg == nil || owner.IsZero() || fn == nil {
		return nil
	}
	sub, err := reg.RegisterFunc(owner, NewKey(namespace, event), fn)
	if err != nil {
		panic(err)
	}
	return sub
}

// Commit commits an event to the [Default] registry, if it's available.
func Commit(namespace, event string, args ...any) {
	if reg := Default(); reg != nil {
		reg.Commit(NewKey(namespace, event), args...)
	}
}

// RemoveAllForOwner removes all listeners for owner from the [Default] registry, if it's available.
func RemoveAllForOwner(owner Owner) {
	if reg := Default(); reg != nil {
		reg.RemoveAllForOwner(owner)
	}
}
