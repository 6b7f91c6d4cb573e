package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "phase and kind",
			err:  &Error{Phase: PhaseLayout, Kind: KindOverflow},
			want: []string{"[layout]", "overflow"},
		},
		{
			name: "with section",
			err:  &Error{Phase: PhaseLayout, Kind: KindBadAlign, Section: ".bss"},
			want: []string{"[layout]", "bad_align", "at .bss"},
		},
		{
			name: "with file and detail",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				File:   "boot.o",
				Detail: "truncated section header",
			},
			want: []string{"[load]", "in boot.o", "truncated section header"},
		},
		{
			name: "with cause",
			err: &Error{
				Phase: PhaseParse,
				Kind:  KindInvalidData,
				Cause: stderrors.New("unexpected token"),
			},
			want: []string{"caused by: unexpected token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("Error() = %q, missing %q", msg, w)
				}
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := Overflow(PhaseLayout, ".data", 0xFFFFFFFFFFFFFFF0)

	if !stderrors.Is(err, &Error{Phase: PhaseLayout, Kind: KindOverflow}) {
		t.Error("expected Is to match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseEmit, Kind: KindOverflow}) {
		t.Error("expected Is to reject different phase")
	}
	if stderrors.Is(err, &Error{Phase: PhaseLayout, Kind: KindBadAlign}) {
		t.Error("expected Is to reject different kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("short read")
	err := Load("kernel.o", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected Unwrap chain to reach cause")
	}

	var structured *Error
	if !stderrors.As(err, &structured) {
		t.Fatal("expected As to find *Error")
	}
	if structured.File != "kernel.o" {
		t.Errorf("File: got %q, want %q", structured.File, "kernel.o")
	}
}

func TestBuilder(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(PhaseLayout, KindBadAlign).
		Section(".bss").
		File("kernel.o").
		Value(uint64(12)).
		Detail("alignment %d is not a power of two", 12).
		Cause(cause).
		Build()

	if err.Phase != PhaseLayout || err.Kind != KindBadAlign {
		t.Errorf("phase/kind: got %v/%v", err.Phase, err.Kind)
	}
	if err.Section != ".bss" || err.File != "kernel.o" {
		t.Errorf("section/file: got %q/%q", err.Section, err.File)
	}
	if err.Detail != "alignment 12 is not a power of two" {
		t.Errorf("detail: got %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("cause not preserved")
	}
	if v, ok := err.Value.(uint64); !ok || v != 12 {
		t.Errorf("value: got %v", err.Value)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if err := BadAlign(PhaseLayout, ".bss", 12); err.Kind != KindBadAlign {
		t.Errorf("BadAlign kind: got %v", err.Kind)
	}
	if err := NotFound(PhaseParse, "region", "code"); !strings.Contains(err.Error(), `region "code" not found`) {
		t.Errorf("NotFound message: %q", err.Error())
	}
	if err := Duplicate(PhaseParse, "region", "bss"); !strings.Contains(err.Error(), `duplicate region "bss"`) {
		t.Errorf("Duplicate message: %q", err.Error())
	}
	if err := ParseFailed("layout script", stderrors.New("bad token")); err.Phase != PhaseParse {
		t.Errorf("ParseFailed phase: got %v", err.Phase)
	}
}
