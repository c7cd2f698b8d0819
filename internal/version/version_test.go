package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_IncludesLdflagsValues(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.2.3"

	assert.Equal(t, "promptboard version v1.2.3\nCommit: unknown\nBuilt: unknown\n", String())
}
