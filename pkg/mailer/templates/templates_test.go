package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	subject, text, html, err := Render(Welcome, WelcomeData("Socially", "alice", "Alice A"))
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Socially, alice!", subject)
	assert.Contains(t, text, "Hi Alice A,")
	assert.Contains(t, html, "@alice")
}

func TestRender_WelcomeFallsBackToUsername(t *testing.T) {
	_, text, _, err := Render(Welcome, WelcomeData("", "alice", ""))
	require.NoError(t, err)

	assert.Contains(t, text, "Hi alice,")
	assert.Contains(t, text, "-- The team")
}

func TestRender_PostLikedEscapesHTML(t *testing.T) {
	subject, text, html, err := Render(PostLiked, PostLikedData("Socially", "Bob", "alice", "<b>hi</b>", 2))
	require.NoError(t, err)

	assert.Equal(t, "alice liked your post", subject)
	assert.Contains(t, text, "It now has 2 like(s).")
	assert.Contains(t, html, "&lt;b&gt;hi&lt;/b&gt;")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "hello", Excerpt("  hello ", 10))
	assert.Equal(t, "héll…", Excerpt("héllo world", 4))
}
