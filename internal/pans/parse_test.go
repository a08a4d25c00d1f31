package pans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPAN  string
		wantName string
		wantErr  bool
	}{
		{
			name:     "pan only",
			input:    "ABCDE1234F",
			wantPAN:  "ABCDE1234F",
			wantName: DefaultName,
		},
		{
			name:     "lowercase pan with two-word name",
			input:    "abcde1234f  John Doe",
			wantPAN:  "ABCDE1234F",
			wantName: "John Doe",
		},
		{
			name:     "name keeps internal spaces",
			input:    "BVJPC7028R Jane  van  Dyke",
			wantPAN:  "BVJPC7028R",
			wantName: "Jane  van  Dyke",
		},
		{
			name:     "leading and trailing whitespace trimmed",
			input:    "  abcde1234f\tJohn  ",
			wantPAN:  "ABCDE1234F",
			wantName: "John",
		},
		{
			// Split happens only on the first run: "A" is the PAN candidate
			// and "B C" the name, then length validation rejects "A".
			name:    "three tokens fail on length not token count",
			input:   "A B C",
			wantErr: true,
		},
		{
			name:    "too short",
			input:   "ABCDE1234",
			wantErr: true,
		},
		{
			name:    "too long",
			input:   "ABCDE1234FX",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := ParseSubmission(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSubmission)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPAN, sub.PAN)
			assert.Equal(t, tt.wantName, sub.Name)
		})
	}
}
