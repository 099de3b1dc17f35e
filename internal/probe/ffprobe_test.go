package probe

import (
	"context"
	"testing"
)

func TestParseOutput(t *testing.T) {
	raw := []byte(`{"format":{"filename":"a.mp3","format_name":"mp3","duration":"180.512000","bit_rate":"128000"}}`)
	info, err := ParseOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Duration != 180.512 || info.Format != "mp3" || info.BitRate != 128000 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestParseOutput_Errors(t *testing.T) {
	cases := map[string]string{
		"not json":     `nope`,
		"no duration":  `{"format":{}}`,
		"bad duration": `{"format":{"duration":"abc"}}`,
	}
	for name, raw := range cases {
		if _, err := ParseOutput([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestProbe_MissingBinary(t *testing.T) {
	old := Binary
	Binary = "ffprobe-does-not-exist"
	defer func() { Binary = old }()

	if _, err := Probe(context.Background(), "x.mp3"); err == nil {
		t.Fatalf("expected error when ffprobe is unavailable")
	}
}
