package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(filename string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: filename, Size: size}
}

func TestValidateArtworkFile(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		designFormat bool
		wantCode     string
	}{
		{"pdf proof", "bandeira.pdf", 1024, false, ""},
		{"jpg proof", "foto.JPG", 1024, false, ""},
		{"jpeg proof", "foto.jpeg", 1024, false, ""},
		{"png proof", "arte.png", 1024, false, ""},
		{"corel file from designer", "arte.cdr", 1024, true, ""},
		{"illustrator file from designer", "arte.ai", 1024, true, ""},
		{"photoshop file from designer", "arte.PSD", 1024, true, ""},
		{"eps from designer", "arte.eps", 1024, true, ""},
		{"svg from designer", "arte.svg", 1024, true, ""},
		{"corel file from salesperson", "arte.cdr", 1024, false, "INVALID_FILE_FORMAT"},
		{"unknown extension", "leia-me.txt", 1024, true, "INVALID_FILE_FORMAT"},
		{"no extension", "arquivo", 1024, true, "INVALID_FILE_FORMAT"},
		{"at the size limit", "grande.pdf", MaxFileSize, false, ""},
		{"over the size limit", "grande.pdf", MaxFileSize + 1, false, "FILE_TOO_LARGE"},
		{"oversize checked before extension", "grande.txt", MaxFileSize + 1, false, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtworkFile(header(tt.filename, tt.size), tt.designFormat)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var fe *FileUploadError
			assert.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantCode, fe.Code)
		})
	}
}

func TestArtworkStorageKey(t *testing.T) {
	key := ArtworkStorageKey(42, 3, "a1b2c3d4", "Bandeira Final.PDF")
	assert.Equal(t, "pedidos/42/v3_a1b2c3d4.pdf", key)

	// Different versions of the same order never share a key prefix.
	other := ArtworkStorageKey(42, 4, "a1b2c3d4", "Bandeira Final.PDF")
	assert.NotEqual(t, key, other)
}
