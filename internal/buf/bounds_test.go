package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(763, 8); !ok || p != 6104 {
		t.Fatalf("MulOverflowSafe(763,8)=%d,%v", p, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt, 2); ok {
		t.Fatalf("expected overflow")
	}
	if _, ok := MulOverflowSafe(-1, 2); ok {
		t.Fatalf("negative operands must be rejected")
	}
}

func TestCheckArrayBounds(t *testing.T) {
	tests := []struct {
		name       string
		bufLen     int
		offset     int
		count      int
		recordSize int
		wantEnd    int
		wantErr    bool
	}{
		{"exact fit", 6144, 36, 763, 8, 6140, false},
		{"empty array", 10, 10, 0, 8, 10, false},
		{"past end", 100, 96, 1, 8, 0, true},
		{"negative offset", 100, -1, 1, 8, 0, true},
		{"negative count", 100, 0, -1, 8, 0, true},
		{"overflow", 100, 0, math.MaxInt, 8, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, err := CheckArrayBounds(tt.bufLen, tt.offset, tt.count, tt.recordSize)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got end=%d", end)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if end != tt.wantEnd {
				t.Fatalf("end=%d want %d", end, tt.wantEnd)
			}
		})
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}

func TestClip(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got := Clip(data, 3, 10); len(got) != 2 || got[0] != 3 {
		t.Fatalf("Clip(3,10) = %v", got)
	}
	if got := Clip(data, 7, 9); len(got) != 0 {
		t.Fatalf("Clip past end should be empty, got %v", got)
	}
	if got := Clip(data, 4, 2); len(got) != 0 {
		t.Fatalf("inverted Clip should be empty, got %v", got)
	}
}

func TestAllZero(t *testing.T) {
	if !AllZero(nil) || !AllZero([]byte{0, 0}) {
		t.Fatalf("zero buffers should report true")
	}
	if AllZero([]byte{0, 1}) {
		t.Fatalf("non-zero buffer should report false")
	}
}
