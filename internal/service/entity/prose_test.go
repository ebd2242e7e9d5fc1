package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProseExtractor_Extract(t *testing.T) {
	text := "Lebron James plays basketball in Los Angeles."

	ents := NewProseExtractor().Extract(text)
	require.NotEmpty(t, ents)
	for _, ent := range ents {
		assert.True(t, strings.Contains(text, ent), "%q not in text", ent)
	}
}

func TestProseExtractor_SharedModel(t *testing.T) {
	first, err := sharedModel()
	require.NoError(t, err)
	second, err := sharedModel()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestProseExtractor_Fallback(t *testing.T) {
	tests := []struct {
		name      string
		recognize func(string) ([]string, error)
		text      string
		want      []string
	}{
		{
			name:      "model result used",
			recognize: func(string) ([]string, error) { return []string{"Los Angeles"}, nil },
			text:      "Apple opens in Los Angeles",
			want:      []string{"Los Angeles"},
		},
		{
			name:      "nothing recognized",
			recognize: func(string) ([]string, error) { return nil, nil },
			text:      "Apple releases a great update",
			want:      []string{"Apple"},
		},
		{
			name:      "model error",
			recognize: func(string) ([]string, error) { return nil, errors.New("boom") },
			text:      "Elon Musk buys Twitter",
			want:      []string{"Elon Musk", "Twitter"},
		},
		{
			name: "blank text skips the model",
			recognize: func(string) ([]string, error) {
				t.Fatal("recognize called on blank text")
				return nil, nil
			},
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &ProseExtractor{recognize: tt.recognize, fallback: NewCapitalizedExtractor()}
			assert.Equal(t, tt.want, ex.Extract(tt.text))
		})
	}
}
