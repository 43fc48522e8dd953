package runtimex

import (
	"errors"
	"testing"
)

func TestPanicOnError(t *testing.T) {
	badfunc := func(in error) (out error) {
		defer func() {
			out = recover().(error)
		}()
		PanicOnError(in, "we expect this function to panic")
		return
	}

	t.Run("case of no panic", func(t *testing.T) {
		PanicOnError(nil, "this should not panic")
	})

	t.Run("case of panic", func(t *testing.T) {
		expected := errors.New("mocked error")
		out := badfunc(expected)
		if !errors.Is(out, expected) {
			t.Fatal("not the error we expected", out)
		}
	})
}

func TestAssert(t *testing.T) {
	badfunc := func(in bool, message string) (out string) {
		defer func() {
			out = recover().(string)
		}()
		Assert(in, message)
		return
	}

	t.Run("case of no panic", func(t *testing.T) {
		Assert(true, "this should not panic")
	})

	t.Run("case of panic", func(t *testing.T) {
		out := badfunc(false, "antani")
		if out != "antani" {
			t.Fatal("not the message we expected", out)
		}
	})
}

func TestPanicIfTrue(t *testing.T) {
	t.Run("case of no panic", func(t *testing.T) {
		PanicIfTrue(false, "this should not panic")
	})

	t.Run("case of panic", func(t *testing.T) {
		var out string
		func() {
			defer func() {
				out = recover().(string)
			}()
			PanicIfTrue(true, "mascetti")
		}()
		if out != "mascetti" {
			t.Fatal("not the message we expected", out)
		}
	})
}

func TestTry1(t *testing.T) {
	t.Run("case of no panic", func(t *testing.T) {
		value := Try1(17, nil)
		if value != 17 {
			t.Fatal("unexpected value", value)
		}
	})

	t.Run("case of panic", func(t *testing.T) {
		expected := errors.New("mocked error")
		var out error
		func() {
			defer func() {
				out = recover().(error)
			}()
			_ = Try1(17, expected)
		}()
		if !errors.Is(out, expected) {
			t.Fatal("not the error we expected", out)
		}
	})
}
