package pythonruntime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	interp, err := parseVersion("python3", "/usr/bin/python3", "3\n11\n3.11.4\n")
	require.NoError(t, err)
	assert.Equal(t, 3, interp.Major)
	assert.Equal(t, 11, interp.Minor)
	assert.Equal(t, "/usr/bin/python3 (3.11.4)", interp.String())

	_, err = parseVersion("python", "/usr/bin/python", "2\n")
	assert.Error(t, err)
	_, err = parseVersion("python", "/usr/bin/python", "x\n7\n2.7.18")
	assert.Error(t, err)
}

func TestResolveOverride(t *testing.T) {
	_, err := Resolve("definitely-not-an-interpreter-xyz")
	assert.ErrorIs(t, err, ErrInterpreterNotFound)
}
