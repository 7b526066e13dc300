package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_KnownAgents(t *testing.T) {
	t.Run("chrome on windows", func(t *testing.T) {
		summary := Summarize("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		assert.Equal(t, "Chrome on Windows 10", summary)
	})

	t.Run("firefox on linux", func(t *testing.T) {
		summary := Summarize("Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0")
		assert.Contains(t, summary, "Firefox")
		assert.Contains(t, summary, " on ")
	})
}

func TestSummarize_EmptyAgent(t *testing.T) {
	assert.Equal(t, "", Summarize(""))
}
