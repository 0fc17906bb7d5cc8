package completion

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAtInsideComment(t *testing.T) {
	src := "int a;\n//#en\nint b;\n"
	offset := strings.Index(src, "#en") + len("#en")
	got, ok := At([]byte(src), offset, "java")
	if !ok {
		t.Fatal("cursor is inside a comment")
	}
	want := Result{Items: []string{"#endif"}, Start: offset - 3, End: offset}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	out := Insert([]byte(src), got, got.Items[0])
	if string(out) != "int a;\n//#endif\nint b;\n" {
		t.Fatalf("insert produced %q", out)
	}
}

func TestAtEmptyWordOffersEverything(t *testing.T) {
	src := "// "
	got, ok := At([]byte(src), len(src), "java")
	if !ok {
		t.Fatal("expected completions")
	}
	if diff := cmp.Diff([]string{"#if", "#else", "#endif", "#ifdef"}, got.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestAtOutsideComment(t *testing.T) {
	src := "String s = \"//#\"; int x;\n"
	for _, off := range []int{0, strings.Index(src, "#") + 1, len(src)} {
		if got, ok := At([]byte(src), off, "java"); ok {
			t.Fatalf("offset %d is not inside a comment: %+v", off, got)
		}
	}
	if _, ok := At([]byte("//#"), 3, "markdown"); ok {
		t.Fatal("markdown has no line comments")
	}
	if _, ok := At([]byte("//#"), 99, "java"); ok {
		t.Fatal("offset out of range")
	}
}

func TestAtHashLanguage(t *testing.T) {
	src := "x = 1 # i"
	got, ok := At([]byte(src), len(src), "python")
	if !ok {
		t.Fatal("expected completions in a hash comment")
	}
	if diff := cmp.Diff([]string{"#if", "#ifdef"}, got.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}
