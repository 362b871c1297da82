// ABOUTME: Tests for render class registration and hierarchy rules
// ABOUTME: Declaration violations must panic at registration time

package render

import (
	"strings"
	"testing"
)

// testClassName builds a registry-unique class name per test.
func testClassName(t *testing.T, suffix string) string {
	t.Helper()
	return strings.ToLower(t.Name()) + "-" + suffix
}

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("panic value %v is not a string", r)
		}
		if !strings.Contains(msg, want) {
			t.Errorf("panic %q does not contain %q", msg, want)
		}
	}()
	fn()
}

func TestNewClassRegistersUnderBase(t *testing.T) {
	name := testClassName(t, "leaf")
	c := NewClass(name, nil)

	if c.Parent() != Base() {
		t.Errorf("parent = %v, want Base", c.Parent())
	}
	got, ok := Lookup(name)
	if !ok || got != c {
		t.Errorf("Lookup(%q) = %v, %v", name, got, ok)
	}
	if !c.IsSubclassOf(Base()) {
		t.Error("class is not a subclass of Base")
	}
	if !c.IsSubclassOf(c) {
		t.Error("class is not a subclass of itself")
	}
}

func TestNewClassEmptyNamePanics(t *testing.T) {
	mustPanic(t, "name must not be empty", func() {
		NewClass("", nil)
	})
}

func TestNewClassDuplicateNamePanics(t *testing.T) {
	name := testClassName(t, "dup")
	NewClass(name, nil)
	mustPanic(t, "already registered", func() {
		NewClass(name, nil)
	})
}

func TestNewClassDeclareAndInheritPanics(t *testing.T) {
	parent := NewClass(testClassName(t, "parent"), nil,
		WithArgs(NewArgsSpec(FieldSpec{Name: "n", Default: 1})))
	mustPanic(t, "cannot both declare and inherit", func() {
		NewClass(testClassName(t, "child"), parent,
			WithArgs(NewArgsSpec(FieldSpec{Name: "m", Default: 2})),
			WithInheritedArgs())
	})
}

func TestNewClassInheritWithoutDeclarerPanics(t *testing.T) {
	parent := NewClass(testClassName(t, "parent"), nil)
	mustPanic(t, "no ancestor declares", func() {
		NewClass(testClassName(t, "child"), parent, WithInheritedArgs())
	})
}

func TestNewClassSpecReassociationPanics(t *testing.T) {
	spec := NewArgsSpec(FieldSpec{Name: "n", Default: 0})
	NewClass(testClassName(t, "first"), nil, WithArgs(spec))
	mustPanic(t, "already associated", func() {
		NewClass(testClassName(t, "second"), nil, WithArgs(spec))
	})
}

func TestArgsSpecDuplicateFieldPanics(t *testing.T) {
	mustPanic(t, "duplicate namespace field", func() {
		NewArgsSpec(
			FieldSpec{Name: "n", Default: 1},
			FieldSpec{Name: "n", Default: 2},
		)
	})
}

func TestArgsSpecUnhashableDefaultPanics(t *testing.T) {
	mustPanic(t, "not hashable", func() {
		NewArgsSpec(FieldSpec{Name: "xs", Default: []int{1, 2}})
	})
}

func TestEncoderResolvesUpChain(t *testing.T) {
	called := ""
	parent := NewClass(testClassName(t, "parent"), nil,
		WithEncoder(func(*EncodeContext) (string, error) {
			called = "parent"
			return "", nil
		}))
	child := NewClass(testClassName(t, "child"), parent)

	enc := child.encoder()
	if enc == nil {
		t.Fatal("child has no encoder despite parent declaring one")
	}
	if _, err := enc(&EncodeContext{}); err != nil {
		t.Fatal(err)
	}
	if called != "parent" {
		t.Errorf("called = %q, want parent", called)
	}
}

func TestClassNamesIncludesBase(t *testing.T) {
	names := ClassNames()
	found := false
	for _, n := range names {
		if n == Base().Name() {
			found = true
		}
	}
	if !found {
		t.Errorf("ClassNames() = %v, missing %q", names, Base().Name())
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("ClassNames not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
