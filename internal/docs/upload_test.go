package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
		wantErr  error
	}{
		{
			name:     "pdf statement",
			fileName: "statement-jan.pdf",
			size:     1 << 20,
		},
		{
			name:     "uppercase extension",
			fileName: "SCAN.PDF",
			size:     512,
		},
		{
			name:     "jpeg screenshot",
			fileName: "rewards.jpeg",
			size:     2 << 20,
		},
		{
			name:     "webp photo",
			fileName: "card-front.webp",
			size:     100,
		},
		{
			name:     "exactly at the size limit",
			fileName: "big.pdf",
			size:     MaxUploadBytes,
		},
		{
			name:     "one byte over the limit",
			fileName: "big.pdf",
			size:     MaxUploadBytes + 1,
			wantErr:  ErrFileTooLarge,
		},
		{
			name:     "spreadsheet rejected",
			fileName: "transactions.xlsx",
			size:     1024,
			wantErr:  ErrUnsupportedFormat,
		},
		{
			name:     "no extension",
			fileName: "statement",
			size:     1024,
			wantErr:  ErrUnsupportedFormat,
		},
		{
			name:     "empty name",
			fileName: "   ",
			size:     1024,
			wantErr:  ErrNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.fileName, tt.size)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
