package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases", "Go Is FUN", []string{"go", "is", "fun"}},
		{"drops single runes", "a b cd e", []string{"cd"}},
		{"splits punctuation", "hello,world!this-is", []string{"hello", "world", "this", "is"}},
		{"keeps digits and underscore", "web3 snake_case 42", []string{"web3", "snake_case", "42"}},
		{"normalizes fullwidth", "ＧＯ", []string{"go"}},
		{"empty", "", nil},
		{"only symbols", "!!! ??? ...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}
