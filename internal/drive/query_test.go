package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		opts SearchOptions
		want string
	}{
		{
			name: "empty excludes trash",
			want: "trashed = false",
		},
		{
			name: "all structured fields",
			opts: SearchOptions{Name: "report", FullText: "budget", MimeType: "application/pdf", FolderID: "abc"},
			want: "name contains 'report' and fullText contains 'budget' and mimeType = 'application/pdf' and 'abc' in parents and trashed = false",
		},
		{
			name: "quotes are escaped",
			opts: SearchOptions{Name: `Bob's \ notes`},
			want: `name contains 'Bob\'s \\ notes' and trashed = false`,
		},
		{
			name: "raw query is parenthesised",
			opts: SearchOptions{Query: "starred = true or sharedWithMe", IncludeTrashed: true},
			want: "(starred = true or sharedWithMe)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.opts))
		})
	}
}

func TestResolveExport(t *testing.T) {
	f, err := resolveExport(DocumentMimeType, "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.mimeType)

	f, err = resolveExport(SpreadsheetMimeType, ".CSV")
	require.NoError(t, err)
	assert.Equal(t, ".csv", f.extension)

	_, err = resolveExport("application/vnd.google-apps.form", "")
	assert.Error(t, err)

	assert.True(t, IsGoogleNative(PresentationMimeType))
	assert.False(t, IsGoogleNative("image/png"))
}
