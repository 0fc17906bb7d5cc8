package comments

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/ppcheck/internal/directive"
)

func TestEnumerateJava(t *testing.T) {
	src := "class A {\r\n" +
		"  //#if VERSION > 2\r\n" +
		"  String s = \"// not a comment \\\" still string\"; // tail\n" +
		"  /* //#endif inside block */\n" +
		"  char c = '\"'; //#endif\n" +
		"}"
	got := Enumerate([]byte(src), mustStyle(t, "java"))
	want := []directive.CommentToken{
		{Text: "//#if VERSION > 2", Offset: 13, PrefixLen: 2},
		{Text: "// tail", Offset: 81, PrefixLen: 2},
		{Text: "//#endif", Offset: 135, PrefixLen: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	for _, tok := range got {
		if src[tok.Offset:tok.End()] != tok.Text {
			t.Fatalf("offset does not point at the comment: %+v", tok)
		}
	}
}

func TestEnumerateTextBlockIsSkipped(t *testing.T) {
	src := "String q = \"\"\"\n//#if a<1\n\"\"\";\n//#endif\n"
	got := Enumerate([]byte(src), mustStyle(t, "java"))
	if len(got) != 1 || got[0].Text != "//#endif" {
		t.Fatalf("unexpected tokens: %+v", got)
	}
}

func TestEnumerateUnterminatedBlockEndsBuffer(t *testing.T) {
	got := Enumerate([]byte("/* open\n//#if a<1\n"), mustStyle(t, "c"))
	if len(got) != 0 {
		t.Fatalf("comments inside an unterminated block must be ignored: %+v", got)
	}
}

func TestEnumerateUnterminatedStringEndsAtLine(t *testing.T) {
	got := Enumerate([]byte("s = \"open\n//#else\n"), mustStyle(t, "c"))
	if len(got) != 1 || got[0].Text != "//#else" {
		t.Fatalf("string must stop at end of line: %+v", got)
	}
}

func TestEnumerateGoRawString(t *testing.T) {
	src := "var x = `\n// in raw\n`\n// real\n"
	got := Enumerate([]byte(src), mustStyle(t, "go"))
	if diff := cmp.Diff([]string{"// real"}, texts(got)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerateHashAndIndentedBlock(t *testing.T) {
	src := "x = 1 # one\n=begin\n# hidden\n=end\n  # two\n"
	got := Enumerate([]byte(src), mustStyle(t, "ruby"))
	if diff := cmp.Diff([]string{"# one", "# two"}, texts(got)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if got[0].PrefixLen != 1 {
		t.Fatalf("hash prefix length = %d", got[0].PrefixLen)
	}
}

func TestEnumerateLongestPrefixWins(t *testing.T) {
	st := Style{LinePrefixes: []string{"//", "//-"}}
	got := Enumerate([]byte("//- note\n"), st)
	if len(got) != 1 || got[0].PrefixLen != 3 {
		t.Fatalf("expected the longer prefix: %+v", got)
	}
}

func TestEnumerateEscapedBackslashClosesString(t *testing.T) {
	src := `p = "C:\\"; // after` + "\n"
	got := Enumerate([]byte(src), mustStyle(t, "c"))
	if diff := cmp.Diff([]string{"// after"}, texts(got)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestAllは再開可能(t *testing.T) {
	seq := All([]byte("// a\n// b\n"), mustStyle(t, "c"))
	first := 0
	for range seq {
		first++
		break
	}
	var again []directive.CommentToken
	for tok := range seq {
		again = append(again, tok)
	}
	if first != 1 || len(again) != 2 {
		t.Fatalf("sequence must restart: first=%d again=%d", first, len(again))
	}
}

func TestCanonicalPrefix(t *testing.T) {
	if p := mustStyle(t, "ini").CanonicalPrefix(); p != ";" {
		t.Fatalf("ini prefix = %q", p)
	}
	if p := (Style{}).CanonicalPrefix(); p != "" {
		t.Fatalf("empty style prefix = %q", p)
	}
	if _, ok := ForLanguage("brainfuck"); ok {
		t.Fatal("unknown language should have no style")
	}
}

func mustStyle(t *testing.T, lang string) Style {
	t.Helper()
	st, ok := ForLanguage(lang)
	if !ok {
		t.Fatalf("no style for %s", lang)
	}
	return st
}

func texts(toks []directive.CommentToken) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out
}

func TestLanguagesSortedAndResolvable(t *testing.T) {
	langs := Languages()
	if !sort.StringsAreSorted(langs) {
		t.Fatalf("Languages should be sorted: %v", langs)
	}
	for _, lang := range langs {
		if _, ok := ForLanguage(lang); !ok {
			t.Fatalf("listed language %q has no style", lang)
		}
	}
}
