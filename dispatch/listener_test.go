package dispatch

import (
	"github.com/saylorsolutions/gevent/box"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func boxAll(args ...any) []box.Value {
	vals := make([]box.Value, len(args))
	for i, arg := range args {
		vals[i] = box.OfAny(arg)
	}
	return vals
}

func TestBind_Execute(t *testing.T) {
	owner := NewOwner()
	var got []any
	tests := map[string]struct {
		listener Listener
		args     []any
	}{
		"Bind0": {
			listener: Bind0(owner, func() { got = []any{} }),
		},
		"Bind1": {
			listener: Bind1(owner, func(a int) { got = []any{a} }),
			args:     []any{1},
		},
		"Bind2": {
			listener: Bind2(owner, func(a int, b string) { got = []any{a, b} }),
			args:     []any{1, "b"},
		},
		"Bind3": {
			listener: Bind3(owner, func(a int, b string, c bool) { got = []any{a, b, c} }),
			args:     []any{1, "b", true},
		},
		"Bind4": {
			listener: Bind4(owner, func(a int, b string, c bool, d error) { got = []any{a, b, c, d} }),
			args:     []any{1, "b", true, nil},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got = nil
			require.NotNil(t, tc.listener)
			assert.Equal(t, owner, tc.listener.Owner())
			require.NoError(t, tc.listener.Execute(boxAll(tc.args...)))
			require.NotNil(t, got)
			assert.Len(t, got, len(tc.args))
			for i, arg := range tc.args {
				assert.Equal(t, arg, got[i])
			}

			err := tc.listener.Execute(boxAll(append(tc.args, "extra")...))
			assert.ErrorIs(t, err, ErrArgCount)
		})
	}
}

func TestBind_TypeMismatch(t *testing.T) {
	var called bool
	listener := Bind3(NewOwner(), func(int, string, bool) { called = true })
	err := listener.Execute(boxAll(1, "b", "not a bool"))
	assert.ErrorIs(t, err, box.ErrTypeMismatch)
	assert.ErrorContains(t, err, "parameter 2")
	assert.False(t, called)
}

func TestBind_NilCallback(t *testing.T) {
	owner := NewOwner()
	assert.Nil(t, Bind0(owner, nil))
	assert.Nil(t, Bind1[int](owner, nil))
	assert.Nil(t, Bind2[int, string](owner, nil))
	assert.Nil(t, Bind3[int, string, bool](owner, nil))
	assert.Nil(t, Bind4[int, string, bool, byte](owner, nil))
}

func TestBind_PointerParam(t *testing.T) {
	owner := NewOwner()
	assert.Panics(t, func() {
		Bind1(owner, func(*int) {})
	})
	assert.Panics(t, func() {
		Bind2(owner, func(int, *string) {})
	})
	assert.Panics(t, func() {
		Bind4[int, int, int, *int](owner, nil)
	}, "Pointer parameters should be rejected even without a callback")
}

func TestBindFunc(t *testing.T) {
	owner := NewOwner()
	var got string
	listener, err := BindFunc(owner, func(a string, b []int, c map[string]bool) {
		got = a
	})
	require.NoError(t, err)
	require.NotNil(t, listener)
	assert.Equal(t, owner, listener.Owner())
	require.NoError(t, listener.Execute(boxAll("a", []int{1}, nil)))
	assert.Equal(t, "a", got)

	err = listener.Execute(boxAll(1, []int{1}, nil))
	assert.ErrorIs(t, err, box.ErrTypeMismatch)
	assert.ErrorContains(t, err, "parameter 0")
	err = listener.Execute(boxAll("a"))
	assert.ErrorIs(t, err, ErrArgCount)
}

func TestBindFunc_Invalid(t *testing.T) {
	owner := NewOwner()
	var nilFunc func(int)
	tests := map[string]struct {
		fn       any
		expected error
	}{
		"Not a function": {fn: 5, expected: ErrNotFunc},
		"Variadic":       {fn: func(...int) {}, expected: ErrSignature},
		"Non-error":      {fn: func() int { return 0 }, expected: ErrSignature},
		"Two results":    {fn: func() (int, error) { return 0, nil }, expected: ErrSignature},
		"Pointer":        {fn: func(string, *int) {}, expected: box.ErrPointerType},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			listener, err := BindFunc(owner, tc.fn)
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, listener)
		})
	}

	listener, err := BindFunc(owner, nil)
	assert.NoError(t, err)
	assert.Nil(t, listener)
	listener, err = BindFunc(owner, nilFunc)
	assert.NoError(t, err)
	assert.Nil(t, listener)
}

func TestBindFunc_InterfaceParam(t *testing.T) {
	var got error
	listener, err := BindFunc(NewOwner(), func(err error) {
		got = err
	})
	require.NoError(t, err)
	require.NoError(t, listener.Execute(boxAll(ErrSignature)))
	assert.ErrorIs(t, got, ErrSignature)
	require.NoError(t, listener.Execute(boxAll(nil)))
	assert.NoError(t, got)
}
