package bacsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := tokenize("  2:5  analogInput 1   presentValue 4 ")
	assert.Len(t, tokens, 5)
	assert.Equal(t, token{kind: tokenIdent, text: "2:5"}, tokens[0])
	assert.Equal(t, token{kind: tokenIdent, text: "analogInput"}, tokens[1])
	assert.Equal(t, token{kind: tokenInteger, text: "1", num: 1}, tokens[2])
	assert.Equal(t, token{kind: tokenIdent, text: "presentValue"}, tokens[3])
	assert.Equal(t, token{kind: tokenInteger, text: "4", num: 4}, tokens[4])
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, tokenize(""))
	assert.Empty(t, tokenize("   \t  "))
}

func TestTokenizeClassification(t *testing.T) {
	tests := []struct {
		text string
		kind tokenKind
	}{
		{"0", tokenInteger},
		{"85", tokenInteger},
		{"presentValue", tokenIdent},
		{"2:5", tokenIdent},
		{"1a", tokenIdent},
		{"-1", tokenIdent},
		{"1.5", tokenIdent},
		//too large for 32 bits, falls back to identifier
		{"4294967296", tokenIdent},
		{"4294967295", tokenInteger},
	}
	for _, tt := range tests {
		tokens := tokenize(tt.text)
		assert.Len(t, tokens, 1, tt.text)
		assert.Equal(t, tt.kind, tokens[0].kind, tt.text)
	}
}
