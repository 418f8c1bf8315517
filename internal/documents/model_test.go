package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFileType(t *testing.T) {
	cases := []struct {
		fileName string
		want     FileType
		ok       bool
	}{
		{"contract.pdf", FileTypePDF, true},
		{"Contract.PDF", FileTypePDF, true},
		{"agreement.docx", FileTypeDOCX, true},
		{"agreement.DOCX", FileTypeDOCX, true},
		{"legacy.doc", "", false},
		{"notes.txt", "", false},
		{"noextension", "", false},
		{"", "", false},
		{"archive.pdf.zip", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseFileType(tc.fileName)
		require.Equal(t, tc.ok, ok, "file %q", tc.fileName)
		require.Equal(t, tc.want, got, "file %q", tc.fileName)
	}
}

func TestIsProcessed(t *testing.T) {
	require.False(t, Document{}.IsProcessed())

	failure := "boom"
	require.False(t, Document{ProcessingError: &failure}.IsProcessed())

	now := time.Now().UTC()
	require.True(t, Document{ProcessedAt: &now}.IsProcessed())
}
