package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard("", ""))
	assert.Equal(t, 1.0, Jaccard("Check the Oil!", "check the oil"))
	assert.Equal(t, 0.0, Jaccard("alpha beta", "gamma delta"))
	assert.InDelta(t, 0.5, Jaccard("a b c", "a b d"), 1e-9)
}

func TestAgreement(t *testing.T) {
	agreement, centrality := Agreement([]string{"only one"})
	assert.Equal(t, 1.0, agreement)
	assert.Equal(t, []float64{1}, centrality)

	agreement, centrality = Agreement([]string{"a b c", "a b d", "x y z"})
	// pairs: 0.5, 0, 0
	assert.InDelta(t, 0.5/3, agreement, 1e-9)
	assert.InDelta(t, 0.25, centrality[0], 1e-9)
	assert.InDelta(t, 0.25, centrality[1], 1e-9)
	assert.InDelta(t, 0.0, centrality[2], 1e-9)
	assert.Equal(t, 0, mostCentral(centrality))
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("**Bold** and a list:\n\n- one\n- two\n\n<script>alert(1)</script>")
	assert.NoError(t, err)
	assert.Contains(t, html, "<strong>Bold</strong>")
	assert.Contains(t, html, "<li>one</li>")
	assert.NotContains(t, html, "<script>")
}
