package format

import (
	"testing"
)

func TestFormatText_TrailingSpaceAndNewline_LF(t *testing.T) {
	in := "a  \n b\t\t  \n"
	got := FormatText(in, Options{PreserveNewlineStyle: false})
	want := "a\nb\n"
	if got != want {
		t.Fatalf("LF trim failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_EnsureTrailingNewline_WhenMissing(t *testing.T) {
	in := "no-newline"
	got := FormatText(in, Options{PreserveNewlineStyle: false})
	want := "no-newline\n"
	if got != want {
		t.Fatalf("ensure trailing newline failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_PreserveCRLF_OnFiles(t *testing.T) {
	in := "x  \r\ny\t \r\n"
	got := FormatText(in, Options{PreserveNewlineStyle: true})
	want := "x\r\ny\r\n"
	if got != want {
		t.Fatalf("CRLF preservation failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_EmptyInput_ProducesSingleNewline(t *testing.T) {
	got := FormatText("", DefaultOptions())
	want := "\n"
	if got != want {
		t.Fatalf("empty input formatting failed: got=%q want=%q", got, want)
	}
}

func TestFormatText_ReindentsByBraceDepth(t *testing.T) {
	in := `ErrorOr<int> Main::main(int, c_string[])
{
TRY([]() -> ErrorOr<void> {
f = []() -> ErrorOr<void> {
return {};
};
return {};
}());
return 0;
}
`
	want := `ErrorOr<int> Main::main(int, c_string[])
{
    TRY([]() -> ErrorOr<void> {
        f = []() -> ErrorOr<void> {
            return {};
        };
        return {};
    }());
    return 0;
}
`
	if got := FormatText(in, DefaultOptions()); got != want {
		t.Fatalf("reindent failed:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatText_IgnoresBracesInLiterals(t *testing.T) {
	in := "{\nlog(\"{{\"sv);\nchar c = '}'; // }\n}\n"
	want := "{\n\tlog(\"{{\"sv);\n\tchar c = '}'; // }\n}\n"
	got := FormatText(in, Options{PreferTabs: true})
	if got != want {
		t.Fatalf("literal braces changed depth: got=%q want=%q", got, want)
	}
}

func TestFormatText_Idempotent(t *testing.T) {
	in := "a {\n  b {\n c;\n}\n}\n"
	once := FormatText(in, DefaultOptions())
	twice := FormatText(once, DefaultOptions())
	if once != twice {
		t.Fatalf("formatting is not idempotent: %q vs %q", once, twice)
	}
}

func TestFormatBytes(t *testing.T) {
	got := string(FormatBytes([]byte("x;   "), DefaultOptions()))
	if got != "x;\n" {
		t.Fatalf("FormatBytes: got=%q", got)
	}
}
