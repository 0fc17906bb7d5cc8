package termcolor

import "testing"

func TestDetectScheme(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want Scheme
	}{
		{"bg=0", map[string]string{"COLORFGBG": "7;0"}, SchemeDark},
		{"bg=7", map[string]string{"COLORFGBG": "15;7"}, SchemeLight},
		{"bg=15", map[string]string{"COLORFGBG": "0;default;15"}, SchemeLight},
		{"TERM", map[string]string{"TERM": "xterm-light"}, SchemeLight},
		{"テーマ指定", map[string]string{"PPCHECK_THEME": "Light", "COLORFGBG": "7;0"}, SchemeLight},
		{"nil", nil, SchemeDark},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectScheme(tc.env); got != tc.want {
				t.Fatalf("DetectScheme=%v want %v", got, tc.want)
			}
		})
	}
}

func TestSchemeBackground(t *testing.T) {
	if SchemeLight.Background() == SchemeDark.Background() {
		t.Fatal("light and dark backgrounds must differ")
	}
	if SchemeUnknown.Background() != SchemeDark.Background() {
		t.Fatal("unknown scheme should fall back to the dark background")
	}
}
