// ABOUTME: Tests for render data slots and the scoped Data lifecycle
// ABOUTME: Uninitialized reads, acquisition order, and finalize-exactly-once

package render

import (
	"errors"
	"image"
	"testing"
)

func TestSlotUninitializedRead(t *testing.T) {
	var s Slot[int]
	if s.IsSet() {
		t.Error("zero slot reports set")
	}
	if _, err := s.Get(); !errors.Is(err, ErrUninitializedField) {
		t.Errorf("err = %v, want ErrUninitializedField", err)
	}

	s.Set(0)
	if !s.IsSet() {
		t.Error("slot not set after Set")
	}
	v, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	// A stored zero is distinct from never stored.
	if v != 0 {
		t.Errorf("v = %d, want 0", v)
	}
}

func TestSlotMustGetPanicsWhenUnset(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var s Slot[string]
	s.MustGet()
}

// recordingData tracks finalization for lifecycle tests.
type recordingData struct {
	class     *Class
	log       *[]string
	finalized int
	err       error
}

func (d *recordingData) Class() *Class { return d.class }

func (d *recordingData) Finalize() error {
	d.finalized++
	*d.log = append(*d.log, "finalize:"+d.class.Name())
	return d.err
}

func lifecycleClasses(t *testing.T, log *[]string) (*Class, *Class, *recordingData, *recordingData) {
	t.Helper()
	var parentData, childData *recordingData
	parent := NewClass(testClassName(t, "parent"), nil,
		WithData(func(*Renderable, Args) (DataNamespace, error) {
			*log = append(*log, "init:parent")
			return parentData, nil
		}),
		WithEncoder(func(*EncodeContext) (string, error) { return "", nil }))
	child := NewClass(testClassName(t, "child"), parent,
		WithData(func(*Renderable, Args) (DataNamespace, error) {
			*log = append(*log, "init:child")
			return childData, nil
		}))
	parentData = &recordingData{class: parent, log: log}
	childData = &recordingData{class: child, log: log}
	return parent, child, parentData, childData
}

func TestDataAcquireRootFirstFinalizeLeafFirst(t *testing.T) {
	var log []string
	parent, child, parentData, childData := lifecycleClasses(t, &log)

	r, err := New(child, staticSource(t), WithTerminal(nil))
	if err != nil {
		t.Fatal(err)
	}
	d, err := acquireData(r, DefaultArgs(child))
	if err != nil {
		t.Fatal(err)
	}

	if got, err := d.For(parent); err != nil || got != DataNamespace(parentData) {
		t.Errorf("For(parent) = %v, %v", got, err)
	}
	if got, err := d.For(child); err != nil || got != DataNamespace(childData) {
		t.Errorf("For(child) = %v, %v", got, err)
	}

	if err := d.Finalize(); err != nil {
		t.Fatal(err)
	}
	want := []string{"init:parent", "init:child",
		"finalize:" + child.Name(), "finalize:" + parent.Name()}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}

	if err := d.Finalize(); !errors.Is(err, ErrDataReleased) {
		t.Errorf("second Finalize = %v, want ErrDataReleased", err)
	}
	if _, err := d.For(child); !errors.Is(err, ErrDataReleased) {
		t.Errorf("For after Finalize = %v, want ErrDataReleased", err)
	}
	if parentData.finalized != 1 || childData.finalized != 1 {
		t.Errorf("finalized counts = %d, %d; want 1, 1",
			parentData.finalized, childData.finalized)
	}
}

func TestDataAcquireFailureFinalizesPartialSet(t *testing.T) {
	var log []string
	boom := errors.New("boom")

	var parentData *recordingData
	parent := NewClass(testClassName(t, "parent"), nil,
		WithData(func(*Renderable, Args) (DataNamespace, error) {
			return parentData, nil
		}),
		WithEncoder(func(*EncodeContext) (string, error) { return "", nil }))
	child := NewClass(testClassName(t, "child"), parent,
		WithData(func(*Renderable, Args) (DataNamespace, error) {
			return nil, boom
		}))
	parentData = &recordingData{class: parent, log: &log}

	r, err := New(child, staticSource(t), WithTerminal(nil))
	if err != nil {
		t.Fatal(err)
	}
	_, err = acquireData(r, DefaultArgs(child))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if parentData.finalized != 1 {
		t.Errorf("parent finalized %d times, want 1", parentData.finalized)
	}
}

func TestDataFinalizeJoinsErrors(t *testing.T) {
	var log []string
	_, child, parentData, childData := lifecycleClasses(t, &log)
	parentData.err = errors.New("parent cleanup failed")
	childData.err = errors.New("child cleanup failed")

	r, err := New(child, staticSource(t), WithTerminal(nil))
	if err != nil {
		t.Fatal(err)
	}
	d, err := acquireData(r, DefaultArgs(child))
	if err != nil {
		t.Fatal(err)
	}

	ferr := d.Finalize()
	if !errors.Is(ferr, parentData.err) || !errors.Is(ferr, childData.err) {
		t.Errorf("Finalize = %v, want both causes joined", ferr)
	}
}

// staticSource builds a one-frame source for tests that never inspect pixels.
func staticSource(t *testing.T) *fakeSource {
	t.Helper()
	return &fakeSource{w: 4, h: 4, frames: 1, definite: true,
		img: image.NewRGBA(image.Rect(0, 0, 4, 4))}
}
