package box

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

var (
	ErrTypeMismatch = errors.New("boxed type mismatch")
	ErrPointerType  = errors.New("pointer types are not allowed")
)

// Value holds exactly one value behind a uniform handle.
// The zero Value holds nil with no known type.
type Value struct {
	val any
	typ reflect.Type
}

// Of boxes val, remembering T as the boxed type.
func Of[T any](val T) Value {
	return Value{val: val, typ: reflect.TypeFor[T]()}
}

// OfAny boxes val using its dynamic type.
// A nil val produces a Value with no type.
func OfAny(val any) Value {
	return Value{val: val, typ: reflect.TypeOf(val)}
}

// Type returns the type the value was boxed as, which may be nil.
func (v Value) Type() reflect.Type {
	return v.typ
}

// Any returns the boxed value without any type checks.
func (v Value) Any() any {
	return v.val
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", typeName(v.typ), v.val)
}

// As retrieves the boxed value as T.
// An error wrapping [ErrTypeMismatch] is returned if the value can't be retrieved as T.
func As[T any](v Value) (T, error) {
	var zero T
	if v.val == nil {
		want := reflect.TypeFor[T]()
		if nillable(want) {
			return zero, nil
		}
		return zero, mismatch(want, v.typ)
	}
	val, ok := v.val.(T)
	if !ok {
		return zero, mismatch(reflect.TypeFor[T](), v.typ)
	}
	return val, nil
}

// MustAs is the same as [As], but panics with the caller's location if the type doesn't match.
func MustAs[T any](v Value) T {
	val, err := As[T](v)
	if err != nil {
		if _, file, line, ok := runtime.Caller(1); ok {
			panic(fmt.Sprintf("%v at '%s#%d'", err, file, line))
		}
		panic(err.Error())
	}
	return val
}

// AsType is the reflective version of [As], used when the wanted type is only known at runtime.
// The returned [reflect.Value] always has type t when the error is nil.
func AsType(v Value, t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, fmt.Errorf("%w: no type requested", ErrTypeMismatch)
	}
	if v.val == nil {
		if nillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, mismatch(t, v.typ)
	}
	rv := reflect.ValueOf(v.val)
	switch {
	case rv.Type() == t:
		return rv, nil
	case t.Kind() == reflect.Interface && rv.Type().Implements(t):
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}
	return reflect.Value{}, mismatch(t, v.typ)
}

// IsPointer reports whether t is a pointer type, including [unsafe.Pointer].
func IsPointer(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// CheckNotPointer returns an error wrapping [ErrPointerType] if T is a pointer type.
func CheckNotPointer[T any]() error {
	t := reflect.TypeFor[T]()
	if IsPointer(t) {
		return fmt.Errorf("%w: %s", ErrPointerType, t)
	}
	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func mismatch(want, got reflect.Type) error {
	return fmt.Errorf("%w: requested %s, but boxed %s", ErrTypeMismatch, typeName(want), typeName(got))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

