package dispatch

import (
	"errors"
	"fmt"
	"github.com/saylorsolutions/gevent/box"
	"reflect"
)

// Listener is a callback bound to an [Owner] that can receive the boxed arguments of a commit.
// Each implementation converts the boxed arguments back into the exact parameter types of its callback.
type Listener interface {
	// Owner returns the identity used to remove this Listener with [Registry.RemoveAllForOwner].
	Owner() Owner
	// Execute unboxes params and calls the callback.
	// An error is returned if the number or types of params don't match the callback's parameters.
	Execute(params []box.Value) error
}

// Bind0 binds a callback that takes no parameters.
// A nil callback results in a nil [Listener].
func Bind0(owner Owner, fn func()) Listener {
	if fn == nil {
		return nil
	}
	return &record0{owner: owner, fn: fn}
}

// Bind1 binds a callback with one parameter.
// Pointer parameter types are rejected with a panic, since they're not allowed in a commit.
// A nil callback results in a nil [Listener].
func Bind1[A any](owner Owner, fn func(A)) Listener {
	mustNotPointer(box.CheckNotPointer[A]())
	if fn == nil {
		return nil
	}
	return &record1[A]{owner: owner, fn: fn}
}

// Bind2 is the same as [Bind1], but with two parameters.
func Bind2[A, B any](owner Owner, fn func(A, B)) Listener {
	mustNotPointer(box.CheckNotPointer[A](), box.CheckNotPointer[B]())
	if fn == nil {
		return nil
	}
	return &record2[A, B]{owner: owner, fn: fn}
}

// Bind3 is the same as [Bind1], but with three parameters.
func Bind3[A, B, C any](owner Owner, fn func(A, B, C)) Listener {
	mustNotPointer(box.CheckNotPointer[A](), box.CheckNotPointer[B](), box.CheckNotPointer[C]())
	if fn == nil {
		return nil
	}
	return &record3[A, B, C]{owner: owner, fn: fn}
}

// Bind4 is the same as [Bind1], but with four parameters.
// Use [BindFunc] for callbacks with more parameters.
func Bind4[A, B, C, D any](owner Owner, fn func(A, B, C, D)) Listener {
	mustNotPointer(box.CheckNotPointer[A](), box.CheckNotPointer[B](), box.CheckNotPointer[C](), box.CheckNotPointer[D]())
	if fn == nil {
		return nil
	}
	return &record4[A, B, C, D]{owner: owner, fn: fn}
}

func mustNotPointer(errs ...error) {
	if err := errors.Join(errs...); err != nil {
		panic(err)
	}
}

var errorType = reflect.TypeFor[error]()

// BindFunc binds a function with any number of parameters using reflection.
// The function may either return nothing, or a single error that is reported as a listener failure.
//
// A nil fn results in a nil [Listener] and nil error.
// Non-functions, variadic functions, other return types, and pointer parameters are rejected with an error.
func BindFunc(owner Owner, fn any) (Listener, error) {
	if fn == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(fn)
	t := rv.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %s", ErrNotFunc, t)
	}
	if rv.IsNil() {
		return nil, nil
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic function %s", ErrSignature, t)
	}
	if t.NumOut() > 1 || (t.NumOut() == 1 && t.Out(0) != errorType) {
		return nil, fmt.Errorf("%w: %s may only return an error", ErrSignature, t)
	}
	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
		if box.IsPointer(params[i]) {
			return nil, fmt.Errorf("%w: parameter %d is %s", box.ErrPointerType, i, params[i])
		}
	}
	return &funcRecord{owner: owner, fn: rv, params: params}, nil
}

func param[T any](params []box.Value, pos int) (T, error) {
	val, err := box.As[T](params[pos])
	if err != nil {
		return val, paramErr(pos, err)
	}
	return val, nil
}

type record0 struct {
	owner Owner
	fn    func()
}

func (r *record0) Owner() Owner {
	return r.owner
}

func (r *record0) Execute(params []box.Value) error {
	if len(params) != 0 {
		return argCountErr(0, len(params))
	}
	r.fn()
	return nil
}

type record1[A any] struct {
	owner Owner
	fn    func(A)
}

func (r *record1[A]) Owner() Owner {
	return r.owner
}

func (r *record1[A]) Execute(params []box.Value) error {
	if len(params) != 1 {
		return argCountErr(1, len(params))
	}
	a, err := param[A](params, 0)
	if err != nil {
		return err
	}
	r.fn(a)
	return nil
}

type record2[A, B any] struct {
	owner Owner
	fn    func(A, B)
}

func (r *record2[A, B]) Owner() Owner {
	return r.owner
}

func (r *record2[A, B]) Execute(params []box.Value) error {
	if len(params) != 2 {
		return argCountErr(2, len(params))
	}
	a, err := param[A](params, 0)
	if err != nil {
		return err
	}
	b, err := param[B](params, 1)
	if err != nil {
		return err
	}
	r.fn(a, b)
	return nil
}

type record3[A, B, C any] struct {
	owner Owner
	fn    func(A, B, C)
}

func (r *record3[A, B, C]) Owner() Owner {
	return r.owner
}

func (r *record3[A, B, C]) Execute(params []box.Value) error {
	if len(params) != 3 {
		return argCountErr(3, len(params))
	}
	a, err := param[A](params, 0)
	if err != nil {
		return err
	}
	b, err := param[B](params, 1)
	if err != nil {
		return err
	}
	c, err := param[C](params, 2)
	if err != nil {
		return err
	}
	r.fn(a, b, c)
	return nil
}

type record4[A, B, C, D any] struct {
	owner Owner
	fn    func(A, B, C, D)
}

func (r *record4[A, B, C, D]) Owner() Owner {
	return r.owner
}

func (r *record4[A, B, C, D]) Execute(params []box.Value) error {
	if len(params) != 4 {
		return argCountErr(4, len(params))
	}
	a, err := param[A](params, 0)
	if err != nil {
		return err
	}
	b, err := param[B](params, 1)
	if err != nil {
		return err
	}
	c, err := param[C](params, 2)
	if err != nil {
		return err
	}
	d, err := param[D](params, 3)
	if err != nil {
		return err
	}
	r.fn(a, b, c, d)
	return nil
}

type funcRecord struct {
	owner  Owner
	fn     reflect.Value
	params []reflect.Type
}

func (r *funcRecord) Owner() Owner {
	return r.owner
}

func (r *funcRecord) Execute(params []box.Value) error {
	if len(params) != len(r.params) {
		return argCountErr(len(r.params), len(params))
	}
	in := make([]reflect.Value, len(params))
	for i, p := range params {
		val, err := box.AsType(p, r.params[i])
		if err != nil {
			return paramErr(i, err)
		}
		in[i] = val
	}
	out := r.fn.Call(in)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}
