package params

import (
	"errors"
	"math"
	"testing"
)

func TestValue_Scalar(t *testing.T) {
	v := Scalar(4.2)

	if v.IsFunction() {
		t.Error("scalar value reports IsFunction")
	}
	if v.At(0) != 4.2 || v.At(1000) != 4.2 {
		t.Error("scalar value not constant in time")
	}

	f, err := v.Float()
	if err != nil {
		t.Fatalf("Float() failed: %v", err)
	}
	if f != 4.2 {
		t.Errorf("Float() = %g, want 4.2", f)
	}
}

func TestValue_Function(t *testing.T) {
	v := Function(func(t float64) float64 { return 2 * t })

	if !v.IsFunction() {
		t.Error("function value does not report IsFunction")
	}
	if got := v.At(3); math.Abs(got-6) > 1e-12 {
		t.Errorf("At(3) = %g, want 6", got)
	}

	if _, err := v.Float(); !errors.Is(err, ErrNotScalar) {
		t.Errorf("expected ErrNotScalar, got %v", err)
	}
}

func TestSet_Get_UnknownKey(t *testing.T) {
	set, err := Load("chen2020")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, err := set.Get(Key("Flux capacitor charge [J]")); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
	if _, err := set.Float(Key("Flux capacitor charge [J]")); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey from Float, got %v", err)
	}
}

func TestSet_With_PartialUpdate(t *testing.T) {
	base, err := Load("chen2020")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	derived, err := base.With(map[Key]Value{CurrentFunction: Scalar(10)})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	// Only the overridden key changes.
	got, _ := derived.Float(CurrentFunction)
	if got != 10 {
		t.Errorf("override not applied: got %g", got)
	}
	for _, k := range base.Keys() {
		if k == CurrentFunction {
			continue
		}
		bv, _ := base.Get(k)
		dv, _ := derived.Get(k)
		if bv.IsFunction() != dv.IsFunction() || bv.At(0) != dv.At(0) {
			t.Errorf("key %q changed by unrelated override", string(k))
		}
	}

	// The base set is untouched.
	orig, _ := base.Float(CurrentFunction)
	if orig != 5.0 {
		t.Errorf("base set mutated: CurrentFunction = %g", orig)
	}
}

func TestSet_With_UnknownKey(t *testing.T) {
	base, _ := Load("chen2020")

	_, err := base.With(map[Key]Value{Key("bogus"): Scalar(1)})
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("expected ErrUnknownKey, got %v", err)
	}
}

func TestSet_With_FunctionValue(t *testing.T) {
	base, _ := Load("chen2020")

	profile := func(t float64) float64 {
		if t < 1800 {
			return -5
		}
		return 5
	}
	derived, err := base.With(map[Key]Value{CurrentFunction: Function(profile)})
	if err != nil {
		t.Fatalf("With failed: %v", err)
	}

	v, _ := derived.Get(CurrentFunction)
	if !v.IsFunction() {
		t.Fatal("current function override lost its function-ness")
	}
	if v.At(0) != -5 || v.At(2000) != 5 {
		t.Error("function override evaluates wrong")
	}
}
