package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v, c, d := Info()
	assert.Equal(t, GetVersion(), v)
	assert.Equal(t, GetCommit(), c)
	assert.Equal(t, GetDate(), d)
	assert.NotEmpty(t, v)
}

func TestStringUsesLinkedValues(t *testing.T) {
	saved := [3]string{version, commit, date}
	t.Cleanup(func() { version, commit, date = saved[0], saved[1], saved[2] })

	version, commit, date = "1.4.0", "abc123", "2026-10-01"

	assert.Equal(t, "snackorders version=1.4.0 commit=abc123 date=2026-10-01", String())
	assert.Equal(t, "1.4.0", GetVersion())
}
