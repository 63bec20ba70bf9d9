package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogosAreEmbedded(t *testing.T) {
	for _, name := range []string{AppLogo, IdleLogo, RunningLogo} {
		resource, err := Logo(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(resource.Content()), "<svg")

		again, err := Logo(name)
		require.NoError(t, err)
		assert.Same(t, resource, again)
	}

	_, err := Logo("missing.svg")
	assert.Error(t, err)
}
