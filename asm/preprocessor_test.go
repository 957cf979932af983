package asm

import (
	"fmt"
	"testing"
)

func mapIncluder(files map[string][]byte) Includer {
	return IncluderFunc(func(path string) ([]byte, error) {
		data, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file")
		}
		return data, nil
	})
}

func TestPreprocessPassesThroughPlainSource(t *testing.T) {
	src := []byte("SET A, 1\nADD A, 2\n")
	out, err := Preprocess(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != string(src) {
		t.Fatalf("got %q, want unchanged source %q", out, src)
	}
}

func TestPreprocessExpandsInclude(t *testing.T) {
	inc := mapIncluder(map[string][]byte{
		"macros.dasm": []byte("SET A, 1\n"),
	})
	src := []byte("#include \"macros.dasm\"\nADD A, 2\n")
	out, err := Preprocess(src, inc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SET A, 1\n\nADD A, 2\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestPreprocessIncludeIsOneLevel(t *testing.T) {
	inc := mapIncluder(map[string][]byte{
		"outer.dasm": []byte("#include \"inner.dasm\"\n"),
		"inner.dasm": []byte("SET A, 1\n"),
	})
	src := []byte("#include \"outer.dasm\"\n")
	out, err := Preprocess(src, inc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The nested directive is copied verbatim, not expanded.
	want := "#include \"inner.dasm\"\n\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestPreprocessMissingIncludeFails(t *testing.T) {
	inc := mapIncluder(map[string][]byte{})
	src := []byte("#include \"missing.dasm\"\n")
	if _, err := Preprocess(src, inc); err == nil {
		t.Fatal("expected an error for a missing include file")
	}
}

func TestPreprocessDefineIsUnimplemented(t *testing.T) {
	src := []byte("#define FOO 1\n")
	if _, err := Preprocess(src, nil); err == nil {
		t.Fatal("expected #define to be rejected")
	}
}

func TestPreprocessUnknownCommandFails(t *testing.T) {
	src := []byte("#bogus\n")
	if _, err := Preprocess(src, nil); err == nil {
		t.Fatal("expected an unrecognized command to fail")
	}
}
