package simd

import "testing"

func TestVec4iArith(t *testing.T) {
	a := Vec4i{1, 2, 3, 4}
	b := Vec4i{10, 20, 30, 40}

	if have, want := a.Add(b), (Vec4i{11, 22, 33, 44}); have != want {
		t.Fatalf("Add: have %v want %v", have, want)
	}
	if have, want := b.Sub(a), (Vec4i{9, 18, 27, 36}); have != want {
		t.Fatalf("Sub: have %v want %v", have, want)
	}
	if have, want := a.Mul(b), (Vec4i{10, 40, 90, 160}); have != want {
		t.Fatalf("Mul: have %v want %v", have, want)
	}
	if have, want := a.Min(b), a; have != want {
		t.Fatalf("Min: have %v want %v", have, want)
	}
	if have, want := a.Max(b), b; have != want {
		t.Fatalf("Max: have %v want %v", have, want)
	}
}

func TestVec4iShift(t *testing.T) {
	a := Vec4i{1, 2, 3, 4}
	if have, want := a.ShiftLeft(1), (Vec4i{2, 4, 6, 8}); have != want {
		t.Fatalf("ShiftLeft: have %v want %v", have, want)
	}
	neg := Vec4i{-8, -4, -2, -1}
	if have, want := neg.ShiftRightArithmetic(1), (Vec4i{-4, -2, -1, -1}); have != want {
		t.Fatalf("ShiftRightArithmetic: have %v want %v", have, want)
	}
}

func TestSignMaskAndAllNegative(t *testing.T) {
	allNeg := Vec4i{-1, -2, -3, -4}
	if !allNeg.IsAllNegative() {
		t.Fatalf("IsAllNegative: have false want true for %v", allNeg)
	}
	if have, want := allNeg.SignMask(), 0xF; have != want {
		t.Fatalf("SignMask: have %#x want %#x", have, want)
	}

	mixed := Vec4i{-1, 2, -3, 4}
	if mixed.IsAllNegative() {
		t.Fatalf("IsAllNegative: have true want false for %v", mixed)
	}
	if have, want := mixed.SignMask(), 0b0101; have != want {
		t.Fatalf("SignMask: have %#b want %#b", have, want)
	}

	allPos := Vec4i{1, 2, 3, 4}
	if have, want := allPos.SignMask(), 0; have != want {
		t.Fatalf("SignMask: have %#x want %#x", have, want)
	}
}

func TestSelect(t *testing.T) {
	newVal := Vec4f{1, 2, 3, 4}
	oldVal := Vec4f{10, 20, 30, 40}
	// lanes 0 and 2 have the sign bit set (take a = new), 1 and 3 do not (take b = old)
	mask := Vec4i{-1, 0, -1, 0}

	have := Select(newVal, oldVal, mask)
	want := Vec4f{1, 20, 3, 40}
	if have != want {
		t.Fatalf("Select: have %v want %v", have, want)
	}
}

func TestVec4fArith(t *testing.T) {
	a := Vec4f{1, 2, 3, 4}
	b := Vec4f{2, 2, 2, 2}

	if have, want := a.Mul(b), (Vec4f{2, 4, 6, 8}); have != want {
		t.Fatalf("Mul: have %v want %v", have, want)
	}
	if have, want := a.Div(b), (Vec4f{0.5, 1, 1.5, 2}); have != want {
		t.Fatalf("Div: have %v want %v", have, want)
	}
	if have, want := a.MulAdd(b, a), (Vec4f{3, 6, 9, 12}); have != want {
		t.Fatalf("MulAdd: have %v want %v", have, want)
	}
}

func TestLoadStore(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5}
	v := Load(data)
	if have, want := v, (Vec4f{1, 2, 3, 4}); have != want {
		t.Fatalf("Load: have %v want %v", have, want)
	}

	v = Vec4f{9, 8, 7, 6}
	Store(v, data)
	if have, want := data[0:4], ([]float32{9, 8, 7, 6}); have[0] != want[0] || have[1] != want[1] || have[2] != want[2] || have[3] != want[3] {
		t.Fatalf("Store: have %v want %v", have, want)
	}
	if data[4] != 5 {
		t.Fatalf("Store wrote past 4 lanes: have %v", data[4])
	}
}

func TestConversionRoundTrip(t *testing.T) {
	i := Vec4i{-3, 0, 7, 1000}
	f := i.ToFloat()
	want := Vec4f{-3, 0, 7, 1000}
	if f != want {
		t.Fatalf("ToFloat: have %v want %v", f, want)
	}
}
