package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "blank merchant",
			args:    []string{"  ", "--amount", "3500", "--cards", "1,2"},
			wantErr: "merchant is required",
		},
		{
			name:    "negative amount",
			args:    []string{"Amazon", "--amount", "-10", "--cards", "1,2"},
			wantErr: "amount must be positive",
		},
		{
			name:    "zero amount",
			args:    []string{"Amazon", "--amount", "0", "--cards", "1,2"},
			wantErr: "amount must be positive",
		},
		{
			name:    "unsupported currency",
			args:    []string{"Amazon", "--amount", "3500", "--cards", "1,2", "--currency", "XYZ"},
			wantErr: "unsupported currency",
		},
		{
			name:    "single card",
			args:    []string{"Amazon", "--amount", "3500", "--cards", "7"},
			wantErr: "at least 2 card IDs",
		},
		{
			name:    "missing required flags",
			args:    []string{"Amazon"},
			wantErr: "required flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := compareCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
