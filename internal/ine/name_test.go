package ine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	tests := []struct {
		input, expected string
	}{
		{"Móra d'Ebre", "mora d'ebre"},
		{"Sant Julià de Ramis", "sant julia de ramis"},
		{"GIRONA", "girona"},
		{"  Olot ", "olot"},
		{"Càlig", "calig"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FoldName(tt.input), "input: %q", tt.input)
	}
}

func TestFoldNameMatchesAccentVariants(t *testing.T) {
	assert.Equal(t, FoldName("Móra d'Ebre"), FoldName("Mora d'Ebre"))
	assert.Equal(t, FoldName("Vilafranca del Penedès"), FoldName("VILAFRANCA DEL PENEDES"))
}
