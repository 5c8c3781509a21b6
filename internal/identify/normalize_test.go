package identify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain domain", "acme.com", "acme.com", true},
		{"uppercase", "ACME.com", "acme.com", true},
		{"surrounding whitespace", "  acme.com  ", "acme.com", true},
		{"trailing dot", "acme.com.", "acme.com", true},
		{"scheme stripped", "https://acme.com", "acme.com", true},
		{"scheme and path stripped", "https://acme.com/support?x=1", "acme.com", true},
		{"port stripped", "acme.com:8080", "acme.com", true},
		{"fragment stripped", "acme.com#anchor", "acme.com", true},
		{"www kept in canonical form", "www.acme.com", "www.acme.com", true},
		{"subdomain", "api.v1.acme.com", "api.v1.acme.com", true},
		{"hyphenated labels", "old-acme.com", "old-acme.com", true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"no dot", "localhost", "", false},
		{"empty label", "acme..com", "", false},
		{"leading dot", ".acme.com", "", false},
		{"invalid characters", "ac me.com", "", false},
		{"underscore rejected", "ac_me.com", "", false},
		{"leading hyphen label", "-acme.com", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestNormalize_Idempotence validates the core invariant: normalizing an
// already-normalized domain yields itself.
func TestNormalize_Idempotence(t *testing.T) {
	inputs := []string{
		"acme.com",
		"ACME.com.",
		"https://api.v1.acme.com/path",
		"www.acme.com",
		"old-acme.com:443",
	}
	for _, input := range inputs {
		once, ok := Normalize(input)
		require.True(t, ok, input)
		twice, ok := Normalize(once)
		require.True(t, ok, once)
		assert.Equal(t, once, twice)
	}
}

func TestExtractDomainFromEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain address", "user@acme.com", "acme.com", true},
		{"mixed case", "User@ACME.com", "acme.com", true},
		{"subdomain", "help@support.acme.com", "support.acme.com", true},
		{"no at sign", "acme.com", "", false},
		{"two at signs", "a@b@acme.com", "", false},
		{"empty local part", "@acme.com", "", false},
		{"empty domain part", "user@", "", false},
		{"invalid domain part", "user@nodot", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDomainFromEmail(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// FuzzNormalize checks that normalization never panics and stays idempotent
// for every accepted input.
func FuzzNormalize(f *testing.F) {
	f.Add("acme.com")
	f.Add("https://ACME.com./path")
	f.Add("user@@")
	f.Add(".")
	f.Fuzz(func(t *testing.T, input string) {
		once, ok := Normalize(input)
		if !ok {
			return
		}
		twice, ok := Normalize(once)
		if !ok {
			t.Fatalf("normalized form %q rejected on second pass", once)
		}
		if once != twice {
			t.Fatalf("normalize not idempotent: %q -> %q -> %q", input, once, twice)
		}
	})
}
