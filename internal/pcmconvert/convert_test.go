package pcmconvert

import "testing"

func TestFloat32ToInt16Clamps(t *testing.T) {
	out := Float32ToInt16([]float32{1.5, -1.5, 1.0, -1.0, 0.0})
	want := []int16{32767, -32768, 32767, -32768, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestFloat32ToInt16MidRange(t *testing.T) {
	out := Float32ToInt16([]float32{0.5, -0.5})
	if out[0] != 16383 {
		t.Fatalf("0.5 -> %d, want 16383", out[0])
	}
	if out[1] != -16383 {
		t.Fatalf("-0.5 -> %d, want -16383", out[1])
	}
}

func TestInt16ToFloat32RoundTrip(t *testing.T) {
	in := []int16{0, 32767, -32768, 16384, -16384}
	out := Int16ToFloat32(in)
	back := Float32ToInt16(out)
	for i, v := range in {
		diff := int(back[i]) - int(v)
		if diff < -1 || diff > 1 {
			t.Fatalf("round trip for %d produced %d, off by more than rounding error", v, back[i])
		}
	}
}

func TestInt16ToFloat32Bounds(t *testing.T) {
	out := Int16ToFloat32([]int16{32767, -32768})
	if out[0] <= 0.99 || out[0] > 1.0 {
		t.Fatalf("max int16 should map near 1.0, got %v", out[0])
	}
	if out[1] != -1.0 {
		t.Fatalf("min int16 should map to exactly -1.0, got %v", out[1])
	}
}
