package callgrind

import "testing"

func TestSubPositionRegisterRelative(t *testing.T) {
	r := newSubPositionRegister(2)

	v0, err := r.resolve(0, "100")
	if err != nil || v0 != 100 {
		t.Fatalf("resolve(0,100) = %v, %v", v0, err)
	}
	v1, err := r.resolve(1, "10")
	if err != nil || v1 != 10 {
		t.Fatalf("resolve(1,10) = %v, %v", v1, err)
	}

	v0, err = r.resolve(0, "+4")
	if err != nil || v0 != 104 {
		t.Fatalf("resolve(0,+4) = %v, %v", v0, err)
	}
	v1, err = r.resolve(1, "+0")
	if err != nil || v1 != 10 {
		t.Fatalf("resolve(1,+0) = %v, %v", v1, err)
	}

	v0, err = r.resolve(0, "*")
	if err != nil || v0 != 104 {
		t.Fatalf("resolve(0,*) = %v, %v", v0, err)
	}
	v1, err = r.resolve(1, "+1")
	if err != nil || v1 != 11 {
		t.Fatalf("resolve(1,+1) = %v, %v", v1, err)
	}
}

func TestSubPositionRegisterStartsAtZero(t *testing.T) {
	r := newSubPositionRegister(1)
	v, err := r.resolve(0, "*")
	if err != nil || v != 0 {
		t.Fatalf("resolve(0,*) on fresh register = %v, %v, want 0", v, err)
	}
}

func TestSubPositionRegisterUnderflowIsError(t *testing.T) {
	r := newSubPositionRegister(1)
	if _, err := r.resolve(0, "-5"); err == nil {
		t.Fatal("expected underflow error")
	}
}

func TestSubPositionRegisterHex(t *testing.T) {
	r := newSubPositionRegister(1)
	v, err := r.resolve(0, "0x1F")
	if err != nil || v != 31 {
		t.Fatalf("resolve(0,0x1F) = %v, %v, want 31", v, err)
	}
}

func TestSubPositionRegisterResizePreservesValues(t *testing.T) {
	r := newSubPositionRegister(1)
	r.values[0] = 42
	r.resize(3)
	if r.values[0] != 42 || r.values[1] != 0 || r.values[2] != 0 {
		t.Fatalf("resize did not preserve/zero-fill: %v", r.values)
	}
}

func TestParseUint64DecimalLeadingZeroIsNotOctal(t *testing.T) {
	tests := []struct {
		token string
		want  uint64
	}{
		{"017", 17},
		{"08", 8},
		{"09", 9},
		{"0", 0},
		{"100", 100},
	}
	for _, tt := range tests {
		got, err := parseUint64(tt.token)
		if err != nil {
			t.Fatalf("parseUint64(%q) error = %v", tt.token, err)
		}
		if got != tt.want {
			t.Fatalf("parseUint64(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestParseUint64HexBothCases(t *testing.T) {
	for _, token := range []string{"0x1F", "0X1F"} {
		got, err := parseUint64(token)
		if err != nil || got != 31 {
			t.Fatalf("parseUint64(%q) = %d, %v, want 31, nil", token, got, err)
		}
	}
}

func TestSubPositionRegisterLeadingZeroDelta(t *testing.T) {
	r := newSubPositionRegister(1)
	if _, err := r.resolve(0, "100"); err != nil {
		t.Fatalf("resolve(0,100) error = %v", err)
	}
	v, err := r.resolve(0, "+08")
	if err != nil || v != 108 {
		t.Fatalf("resolve(0,+08) = %v, %v, want 108, nil", v, err)
	}
}

func TestCompressionCacheWriteOnce(t *testing.T) {
	c := newCompressionCache()
	if !c.bind(0, "a.c") {
		t.Fatal("expected first bind of index 0 to succeed")
	}
	if got, ok := c.lookup(0); !ok || got != "a.c" {
		t.Fatalf("lookup(0) = %q, %v, want a.c, true", got, ok)
	}
	if c.bind(0, "b.c") {
		t.Fatal("rebinding index 0 must fail")
	}
	if got, _ := c.lookup(0); got != "a.c" {
		t.Fatalf("failed rebind must not overwrite existing entry, got %q", got)
	}
}
