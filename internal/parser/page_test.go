package parser

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestNewUTF8Reader(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		input       []byte
		contentType string
		want        string
	}{
		{
			name:  "utf-8 passes through",
			input: []byte(`<html><head><meta property="og:title" content="Sunset ☀ at the café"></head></html>`),
			want:  "Sunset ☀ at the café",
		},
		{
			name:  "meta charset latin1",
			input: []byte(`<html><head><meta charset="ISO-8859-1"></head><body>Caf` + string([]byte{0xE9}) + `</body></html>`),
			want:  "Café",
		},
		{
			name:  "http-equiv windows-1252",
			input: []byte(`<html><head><meta http-equiv="Content-Type" content="text/html; charset=windows-1252"></head><body>Brand` + string([]byte{0x99}) + `</body></html>`),
			want:  "Brand™",
		},
		{
			name:        "content type header wins",
			input:       []byte(`<html><body>Bj` + string([]byte{0xF6}) + `rk</body></html>`),
			contentType: "text/html; charset=iso-8859-1",
			want:        "Björk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reader, err := NewUTF8Reader(bytes.NewReader(tt.input), tt.contentType)
			if err != nil {
				t.Fatalf("NewUTF8Reader failed: %v", err)
			}
			out, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if !strings.Contains(string(out), tt.want) {
				t.Errorf("Expected output to contain %q, got %q", tt.want, out)
			}
		})
	}
}

func TestNewUTF8Reader_StopsAtMaxPageSize(t *testing.T) {
	t.Parallel()
	page := strings.Repeat("a", MaxPageSize+512)
	reader, err := NewUTF8Reader(strings.NewReader(page), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("NewUTF8Reader failed: %v", err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(out) != MaxPageSize {
		t.Errorf("read %d bytes, want %d", len(out), MaxPageSize)
	}
}
