package colorutil

import "testing"

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
		err  bool
	}{
		{"#ff8800", RGB{255, 136, 0}, false},
		{"0a0B0c", RGB{10, 11, 12}, false},
		{"#fff", RGB{255, 255, 255}, false},
		{"#12345", RGB{}, true},
		{"#gggggg", RGB{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseHex(tc.in)
			if tc.err {
				if err == nil {
					t.Fatalf("ParseHex(%q) expected error", tc.in)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("ParseHex(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
			}
			if tc.in[0] == '#' && len(tc.in) == 7 && got.Hex() != tc.in {
				t.Fatalf("Hex() = %s, want %s", got.Hex(), tc.in)
			}
		})
	}
}

func TestContrastRatio(t *testing.T) {
	if r := ContrastRatio(Black, White); r < 20.9 || r > 21.1 {
		t.Fatalf("black on white should be 21:1, got %.2f", r)
	}
	if ContrastRatio(White, Black) != ContrastRatio(Black, White) {
		t.Fatal("contrast ratio must be symmetric")
	}
	if r := ContrastRatio(RGB{185, 28, 28}, White); r < 4.5 {
		t.Fatalf("dark red on white ratio %.2f < 4.5", r)
	}
}

func TestAutoTextColor(t *testing.T) {
	cases := []struct {
		name string
		bg   RGB
		want RGB
	}{
		{"明るい背景", RGB{255, 247, 237}, Black},
		{"暗い背景", RGB{15, 23, 42}, White},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AutoTextColor(tc.bg); got != tc.want {
				t.Fatalf("AutoTextColor=%v want %v", got, tc.want)
			}
		})
	}
}

func TestMix(t *testing.T) {
	if got := Mix(Black, White, 0.5); got != (RGB{128, 128, 128}) {
		t.Fatalf("Mix midpoint = %v", got)
	}
	if got := Mix(Black, White, 2); got != White {
		t.Fatalf("Mix should clamp t, got %v", got)
	}
}

func TestEnsureContrastKeepsHue(t *testing.T) {
	bg := RGB{249, 250, 251}
	fg := RGB{245, 158, 11}
	got := EnsureContrast(fg, bg, 4.5)
	if ContrastRatio(got, bg) < 4.5 {
		t.Fatalf("EnsureContrast result %v ratio %.2f < 4.5", got, ContrastRatio(got, bg))
	}
	if got == Black {
		t.Fatalf("expected a darkened amber, got pure black")
	}
	if same := EnsureContrast(Black, bg, 4.5); same != Black {
		t.Fatalf("already sufficient colors must be returned unchanged, got %v", same)
	}
}
