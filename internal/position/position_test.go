package position

import (
	"testing"
)

func TestPositionString(t *testing.T) {
	tests := []struct {
		name    string
		pos     Position
		isValid bool
		want    string
	}{
		{
			name:    "with filename",
			pos:     Position{Filename: "demo.lum", Line: 10, Column: 5, Offset: 100},
			isValid: true,
			want:    "demo.lum:10:5",
		},
		{
			name:    "filename reduced to base",
			pos:     Position{Filename: "src/lib/demo.lum", Line: 2, Column: 3, Offset: 20},
			isValid: true,
			want:    "demo.lum:2:3",
		},
		{
			name:    "without filename",
			pos:     Position{Line: 1, Column: 1, Offset: 0},
			isValid: true,
			want:    "1:1",
		},
		{
			name:    "zero line is invalid",
			pos:     Position{Line: 0, Column: 1, Offset: 0},
			isValid: false,
			want:    "0:1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.isValid {
				t.Errorf("IsValid() = %v, want %v", got, tt.isValid)
			}
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanString(t *testing.T) {
	tests := []struct {
		name string
		span Span
		want string
	}{
		{
			name: "single line",
			span: Span{
				Start: Position{Filename: "demo.lum", Line: 1, Column: 1, Offset: 0},
				End:   Position{Filename: "demo.lum", Line: 1, Column: 5, Offset: 4},
			},
			want: "demo.lum:1:1-5",
		},
		{
			name: "multi line",
			span: Span{
				Start: Position{Filename: "demo.lum", Line: 1, Column: 1, Offset: 0},
				End:   Position{Filename: "demo.lum", Line: 3, Column: 2, Offset: 30},
			},
			want: "demo.lum:1:1-3:2",
		},
		{
			name: "zero span",
			span: Span{},
			want: "<no location>",
		},
		{
			name: "mismatched filenames",
			span: Span{
				Start: Position{Filename: "a.lum", Line: 1, Column: 1, Offset: 0},
				End:   Position{Filename: "b.lum", Line: 1, Column: 2, Offset: 1},
			},
			want: "<no location>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanUnion(t *testing.T) {
	mk := func(startOff, endOff int) Span {
		return Span{
			Start: Position{Filename: "demo.lum", Line: 1, Column: startOff + 1, Offset: startOff},
			End:   Position{Filename: "demo.lum", Line: 1, Column: endOff + 1, Offset: endOff},
		}
	}

	a := mk(0, 4)
	b := mk(8, 12)
	got := a.Union(b)
	if got.Start.Offset != 0 || got.End.Offset != 12 {
		t.Errorf("Union covers %d..%d, want 0..12", got.Start.Offset, got.End.Offset)
	}

	// Union with an invalid span keeps the valid one.
	if got := a.Union(Span{}); got != a {
		t.Errorf("Union with zero span = %v, want %v", got, a)
	}
	if got := (Span{}).Union(b); got != b {
		t.Errorf("zero span Union = %v, want %v", got, b)
	}
}

func TestSourceFile(t *testing.T) {
	content := "module Demo where\nmain = show 42\n"
	sf := NewSourceFile("demo.lum", content)

	if got := sf.GetLine(1); got != "module Demo where" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := sf.GetLine(2); got != "main = show 42" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := sf.GetLine(99); got != "" {
		t.Errorf("GetLine(99) = %q, want empty", got)
	}

	span := Span{
		Start: Position{Filename: "demo.lum", Line: 2, Column: 1, Offset: 18},
		End:   Position{Filename: "demo.lum", Line: 2, Column: 5, Offset: 22},
	}
	if got := sf.GetSpanText(span); got != "main" {
		t.Errorf("GetSpanText = %q, want %q", got, "main")
	}
}

func TestSourceMap(t *testing.T) {
	sm := NewSourceMap()
	sm.AddFile("a.lum", "module A where\n")

	if sm.GetFile("a.lum") == nil {
		t.Error("GetFile returned nil for a registered file")
	}
	if sm.GetFile("missing.lum") != nil {
		t.Error("GetFile returned a file for an unregistered name")
	}
}
