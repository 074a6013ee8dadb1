package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v1.2.3", "abc1234"

	info := Get()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, GoVersion, info.GoVersion)
	assert.Contains(t, info.String(), "v1.2.3 (commit=abc1234")
	assert.Equal(t, "LibGate/v1.2.3", UserAgent())
}
