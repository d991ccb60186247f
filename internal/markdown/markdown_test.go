package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "heading and paragraph",
			source: "# Release notes\n\nShipped the new login flow.",
			want:   []string{"<h1>Release notes</h1>", "<p>Shipped the new login flow.</p>"},
		},
		{
			name:   "list",
			source: "- first\n- second",
			want:   []string{"<ul>", "<li>first</li>", "<li>second</li>"},
		},
		{
			name:   "gfm table",
			source: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:   []string{"<table>", "<td>1</td>"},
		},
		{
			name:   "emphasis",
			source: "done **yesterday**",
			want:   []string{"<strong>yesterday</strong>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestToHTML_Empty(t *testing.T) {
	got, err := ToHTML("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
