package termcolor

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		input string
		want  ColorMode
		err   bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"always", ModeAlways, false},
		{"never", ModeNever, false},
		{" ALWAYS ", ModeAlways, false},
		{"invalid", ModeAuto, true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.input)
		if tc.err {
			if err == nil {
				t.Fatalf("ParseMode(%q) expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMode(%q) unexpected error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMode(%q)=%v want %v", tc.input, got, tc.want)
		}
	}
}

func TestDetectModeEnvironmentRules(t *testing.T) {
	_, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer func() {
		_ = w.Close()
	}()

	cases := []struct {
		name string
		env  map[string]string
		want ColorMode
	}{
		{"NO_COLOR", map[string]string{"NO_COLOR": "1"}, ModeNever},
		{"CLICOLOR_FORCE", map[string]string{"CLICOLOR_FORCE": "2"}, ModeAlways},
		{"FORCE_COLOR", map[string]string{"FORCE_COLOR": "1"}, ModeAlways},
		{"FORCE_COLOR=0 は無視", map[string]string{"FORCE_COLOR": "0"}, ModeNever},
		{"NO_COLOR が強制より優先", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, ModeNever},
		{"CLICOLOR=0", map[string]string{"CLICOLOR": "0", "FORCE_COLOR": "1"}, ModeNever},
		{"TERM=dumb", map[string]string{"TERM": "dumb", "FORCE_COLOR": "1"}, ModeNever},
		{"パイプ", nil, ModeNever},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectMode(w, tc.env); got != tc.want {
				t.Fatalf("DetectMode=%v want %v", got, tc.want)
			}
		})
	}
	if got := DetectMode(nil, map[string]string{"FORCE_COLOR": "1"}); got != ModeNever {
		t.Fatalf("nil stdout should never color, got %v", got)
	}
}

func TestResolve(t *testing.T) {
	_, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer func() {
		_ = w.Close()
	}()

	if !Resolve(ModeAlways, nil, nil) {
		t.Fatal("ModeAlways should be enabled even with nil stdout")
	}
	if Resolve(ModeNever, w, map[string]string{"FORCE_COLOR": "1"}) {
		t.Fatal("ModeNever should be disabled")
	}
	if Resolve(ModeAuto, w, nil) {
		t.Fatal("ModeAuto with non-tty stdout should be disabled")
	}
	if !Resolve(ModeAuto, w, map[string]string{"CLICOLOR_FORCE": "1"}) {
		t.Fatal("ModeAuto should honour CLICOLOR_FORCE")
	}
}

func TestDetectProfile(t *testing.T) {
	cases := map[string]struct {
		env  map[string]string
		want Profile
	}{
		"truecolor": {map[string]string{"COLORTERM": "truecolor"}, ProfileTrueColor},
		"24bit":     {map[string]string{"COLORTERM": "24bit", "TERM": "xterm-256color"}, ProfileTrueColor},
		"256":       {map[string]string{"TERM": "xterm-256color"}, ProfileANSI256},
		"default":   {nil, ProfileBasic8},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := DetectProfile(tc.env); got != tc.want {
				t.Fatalf("DetectProfile=%v want %v", got, tc.want)
			}
		})
	}
}

func TestEnvMap(t *testing.T) {
	got := EnvMap([]string{"FOO=bar", "BAZ", "QUX=1=2", ""})
	want := map[string]string{"FOO": "bar", "BAZ": "", "QUX": "1=2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("EnvMap mismatch (-want +got):\n%s", diff)
	}
}
