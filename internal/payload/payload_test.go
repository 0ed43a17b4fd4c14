package payload

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"single character", 1, 1},
		{"fifty characters", 50, 50},
		{"zero length", 0, 0},
		{"negative length", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.length)
			if len(got) != tt.want {
				t.Fatalf("expected length %d, got %d", tt.want, len(got))
			}
			for _, c := range got {
				if !strings.ContainsRune(Alphabet, c) {
					t.Errorf("Generate() returned non-alphanumeric character: %c", c)
				}
			}
		})
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for range 20 {
		seen[Generate(50)] = true
	}
	if len(seen) < 20 {
		t.Errorf("expected 20 distinct payloads, got %d", len(seen))
	}
}

func TestDigest(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "D41D8CD98F00B204E9800998ECF8427E"},
		{"a", "0CC175B9C0F1B6A831C399E269772661"},
		{"hello world", "5EB63BBBE01EEED093CB22BB8F5ACDC3"},
	}

	for _, tt := range tests {
		got := Digest(tt.input)
		if got != tt.want {
			t.Errorf("Digest(%q) = %s, want %s", tt.input, got, tt.want)
		}
		if len(got) != DigestLength {
			t.Errorf("Digest(%q) returned %d characters, expected %d", tt.input, len(got), DigestLength)
		}
	}
}

func TestDigestIsDeterministic(t *testing.T) {
	p := Generate(50)
	if Digest(p) != Digest(p) {
		t.Fatal("expected digest of the same payload to be stable")
	}

	other := p + "x"
	if Digest(p) == Digest(other) {
		t.Fatal("expected distinct payloads to have distinct digests")
	}
}

func TestMatches(t *testing.T) {
	p := "AbC123"
	stored := Digest(p)

	if !Matches(stored, p) {
		t.Error("expected uppercase digest to match")
	}
	if !Matches(strings.ToLower(stored), p) {
		t.Error("expected lowercase digest to match")
	}
	if Matches(stored, "abc123") {
		t.Error("expected digest of a different payload not to match")
	}
	if Matches("", p) {
		t.Error("expected empty stored value not to match")
	}
}
