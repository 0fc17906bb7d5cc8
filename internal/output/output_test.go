package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/ppcheck/internal/engine"
	"github.com/phyten/ppcheck/internal/model"
	"github.com/phyten/ppcheck/internal/termcolor"
	"github.com/phyten/ppcheck/internal/textutil"
)

func sampleDiagnostics() []model.Diagnostic {
	return []model.Diagnostic{
		{
			File:     "src/A.java",
			Lang:     "java",
			Category: "error",
			Kind:     "unmatched_endif",
			Message:  `Preprocessor directive "endif" must have an opening if.`,
			Text:     "//#endif",
			Line:     "//#endif",
			Span:     model.Span{StartLine: 6, StartCol: 1, EndLine: 6, EndCol: 9, ByteStart: 55, ByteEnd: 63, DisplayCol: 1},
		},
		{
			File:     "src/B.java",
			Lang:     "java",
			Category: "error",
			Kind:     "invalid_condition",
			Message:  `Invalid condition "a | b"`,
			Text:     "a | b",
			Line:     "\t//#if a | b",
			Span:     model.Span{StartLine: 12, StartCol: 8, EndLine: 12, EndCol: 13, ByteStart: 200, ByteEnd: 205, DisplayCol: 11},
		},
	}
}

func mustFields(t *testing.T, raw string) FieldSelection {
	t.Helper()
	sel, err := ResolveFields(raw, false, false)
	if err != nil {
		t.Fatalf("ResolveFields(%q) failed: %v", raw, err)
	}
	return sel
}

const wantTable = "LOCATION         KIND               MESSAGE\n" +
	"src/A.java:6:1   unmatched_endif    Preprocessor directive \"endif\" must have an opening if.\n" +
	"src/B.java:12:8  invalid_condition  Invalid condition \"a | b\"\n"

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleDiagnostics(), mustFields(t, ""), termcolor.Painter{}); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if diff := cmp.Diff(wantTable, buf.String()); diff != "" {
		t.Fatalf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTableColorKeepsAlignment(t *testing.T) {
	var buf bytes.Buffer
	p := termcolor.Painter{Enabled: true, Scheme: termcolor.SchemeDark, Profile: termcolor.ProfileBasic8}
	if err := WriteTable(&buf, sampleDiagnostics(), mustFields(t, ""), p); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[2msrc/A.java:6:1\x1b[0m") {
		t.Fatalf("location should be dimmed: %q", out)
	}
	if diff := cmp.Diff(wantTable, textutil.StripANSI(out)); diff != "" {
		t.Fatalf("colored table should align like plain output (-want +got):\n%s", diff)
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, sampleDiagnostics(), mustFields(t, "location,text")); err != nil {
		t.Fatalf("WriteTSV failed: %v", err)
	}
	want := "LOCATION\tTEXT\nsrc/A.java:6:1\t//#endif\nsrc/B.java:12:8\ta | b\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("tsv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleDiagnostics(), mustFields(t, "file,line,col,message")); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	want := "FILE,LINE,COL,MESSAGE\r\n" +
		"src/A.java,6,1,\"Preprocessor directive \"\"endif\"\" must have an opening if.\"\r\n" +
		"src/B.java,12,8,\"Invalid condition \"\"a | b\"\"\"\r\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMarkdownTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdownTable(&buf, sampleDiagnostics(), mustFields(t, "location,kind,text,message")); err != nil {
		t.Fatalf("WriteMarkdownTable failed: %v", err)
	}
	want := "| LOCATION | KIND | TEXT | MESSAGE |\n" +
		"| --- | --- | --- | --- |\n" +
		"| `src/A.java:6:1` | unmatched_endif | `//#endif` | Preprocessor directive \"endif\" must have an opening if. |\n" +
		"| `src/B.java:12:8` | invalid_condition | `a \\| b` | Invalid condition \"a \\| b\" |\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestCodeSpan(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"x":        "`x`",
		"a`b":      "``a`b``",
		"`edge":    "`` `edge ``",
		"line\nnl": "`line nl`",
	}
	for in, want := range cases {
		if got := codeSpan(in); got != want {
			t.Fatalf("codeSpan(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePretty(&buf, sampleDiagnostics(), termcolor.Painter{}); err != nil {
		t.Fatalf("WritePretty failed: %v", err)
	}
	want := "src/A.java:6:1: error[unmatched_endif]: Preprocessor directive \"endif\" must have an opening if.\n" +
		"   6 | //#endif\n" +
		"     | ^^^^^^^^\n" +
		"src/B.java:12:8: error[invalid_condition]: Invalid condition \"a | b\"\n" +
		"  12 |     //#if a | b\n" +
		"     |           ^^^^^\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}
}

func TestWritePrettyNonErrorSpan(t *testing.T) {
	d := model.Diagnostic{
		File:     "A.java",
		Category: "code",
		Token:    "keyword",
		Text:     "int",
		Line:     "//$$ int x;",
		Span:     model.Span{StartLine: 1, StartCol: 6, EndLine: 1, EndCol: 9, ByteStart: 5, ByteEnd: 8},
	}
	var buf bytes.Buffer
	if err := WritePretty(&buf, []model.Diagnostic{d}, termcolor.Painter{}); err != nil {
		t.Fatalf("WritePretty failed: %v", err)
	}
	want := "A.java:1:6: code(keyword): \"int\"\n" +
		"  1 | //$$ int x;\n" +
		"    |      ^^^\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, sampleDiagnostics()); err != nil {
		t.Fatalf("WriteNDJSON failed: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var d model.Diagnostic
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			t.Fatalf("failed to decode line %d: %v", i, err)
		}
	}
	if strings.Contains(out, "#if a") {
		t.Fatal("source line must not be serialised")
	}
	if !strings.Contains(out, `"kind":"unmatched_endif"`) {
		t.Fatalf("kind missing: %s", out)
	}
}

func TestWriteJSONEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, &engine.Result{Files: 3}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if diags, ok := decoded["diagnostics"].([]any); !ok || len(diags) != 0 {
		t.Fatalf("diagnostics should be an empty array: %v", decoded["diagnostics"])
	}
	if decoded["files"] != float64(3) {
		t.Fatalf("files = %v", decoded["files"])
	}
}

func TestWriteDispatch(t *testing.T) {
	res := &engine.Result{Diagnostics: sampleDiagnostics()}
	var buf bytes.Buffer
	err := Write(&buf, res, Options{Format: "tsv", Fields: mustFields(t, "line"), Sort: SortSpec{Keys: []SortKey{{Name: "line", Desc: true}}}})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if diff := cmp.Diff("LINE\n12\n6\n", buf.String()); diff != "" {
		t.Fatalf("sorted tsv mismatch (-want +got):\n%s", diff)
	}
	if err := Write(&buf, res, Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
