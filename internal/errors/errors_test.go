package errors

import (
	stderrors "errors"
	"fmt"
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
			code:    "E002",
			wantMsg: "Hook order changed",
			wantCat: CategoryRuntime,
		},
		{
			name:    "store error",
			code:    "S001",
			wantMsg: "Store used outside its provider",
			wantCat: CategoryStore,
		},
		{
			name:    "unknown error code",
			code:    "S999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("S001").WithDetail("Counter.Use called outside Counter.Provider")
	want := "S001: Store used outside its provider: Counter.Use called outside Counter.Provider"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noCode := &VangoError{Message: "boom"}
	if noCode.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", noCode.Error(), "boom")
	}
}

func TestWrapSupportsErrorsIs(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := New("S002").Wrap(sentinel)

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should see the wrapped sentinel")
	}

	var ve *VangoError
	if !stderrors.As(err, &ve) || ve.Code != "S002" {
		t.Error("errors.As should recover the VangoError")
	}
}

func TestFormat(t *testing.T) {
	err := New("S001").
		WithComponent("CountLabel").
		WithDetailf("%s.Use called outside %s.Provider", "Counter", "Counter").
		WithSuggestion("Mount the consumer below Counter.Provider")

	out := Printer{}.Format(err)
	for _, want := range []string{
		"ERROR S001: Store used outside its provider",
		"in CountLabel",
		"Counter.Use called outside Counter.Provider",
		"Hint: Mount the consumer below Counter.Provider",
		"Learn more: https://vango.dev/docs/errors/S001",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("Format() should not emit colors:\n%q", out)
	}
}

func TestPrinterColor(t *testing.T) {
	out := Printer{Color: true}.Format(New("E004"))
	if !strings.Contains(out, ansiRed) || !strings.Contains(out, ansiReset) {
		t.Errorf("expected ANSI escapes, got %q", out)
	}
}

func TestPrinterFprint(t *testing.T) {
	var buf strings.Builder
	wrapped := fmt.Errorf("tearing_safe: %w", New("E004").WithDetail("still dirty after 3 passes"))
	if err := (Printer{}).Fprint(&buf, wrapped); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "ERROR E004: Render loop limit exceeded") {
		t.Errorf("wrapped VangoError should be formatted, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := (Printer{}).Fprint(&buf, stderrors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ERROR: boom\n" {
		t.Errorf("plain error = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("aaa bbb ccc dddddddddd e", 8)
	want := []string{"aaa bbb", "ccc", "dddddddddd", "e"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapText = %q, want %q", got, want)
	}
	if wrapText("   ", 8) != nil {
		t.Error("blank text should produce no lines")
	}
}

func TestFromPanic(t *testing.T) {
	if FromPanic(nil) != nil {
		t.Error("FromPanic(nil) should be nil")
	}

	sentinel := stderrors.New("x")
	if FromPanic(sentinel) != sentinel {
		t.Error("error panics should be returned unchanged")
	}

	err := FromPanic("plain string")
	if err == nil || err.Error() != "plain string" {
		t.Errorf("FromPanic(string) = %v", err)
	}
}

func TestWrapTextPreservesWords(t *testing.T) {
	lines := wrapText("one two three four five six", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestRegistryCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("registry should not be empty")
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.DocURL == "" {
			t.Errorf("template for %s is incomplete: %+v", code, tmpl)
		}
	}
}
