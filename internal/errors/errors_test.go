package errors

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "runtime error",
			code:    "E101",
			wantMsg: "Propagation depth exceeded",
			wantCat: CategoryRuntime,
		},
		{
			name:    "config error",
			code:    "E201",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := New("E203").Wrap(cause)

	if got := err.Error(); got != "E203: Configuration file is malformed: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to see the wrapped cause")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E201") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E101")
	if FromError(orig, "E201") != orig {
		t.Error("FromError should return an existing *Error unchanged")
	}

	wrapped := FromError(stderrors.New("x"), "E301")
	if wrapped.Code != "E301" || wrapped.Wrapped == nil {
		t.Errorf("unexpected wrapped error: %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E201").
		WithDetail("graph.maxDepth must not be negative").
		WithSuggestion("set graph.maxDepth to 0 to disable the limit")

	out := err.Format()
	for _, want := range []string{
		"ERROR E201: Invalid configuration",
		"graph.maxDepth must not be negative",
		"Hint: set graph.maxDepth to 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "E201: Invalid configuration (graph.maxDepth must not be negative)" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestPrintErrorPlain(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintErrorCompactWhenRedirected(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stderr.log"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	defer f.Close()

	PrintError(f, New("E201").WithDetail("graph.maxDepth must not be negative"))

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	want := "E201: Invalid configuration (graph.maxDepth must not be negative)\n"
	if string(data) != want {
		t.Errorf("PrintError() to a file = %q, want %q", data, want)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestRegistryCodesSorted(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("expected registered codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	if _, ok := GetTemplate("E101"); !ok {
		t.Error("expected E101 to be registered")
	}
}
