package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToAddr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unix:///tmp/agent.sock", normalizeToAddr("unix:///tmp/agent.sock"))
	assert.Equal(t, "tcp://agent:8081", normalizeToAddr("tcp://agent:8081"))
	assert.Equal(t, "unix:///tmp/agent.sock", normalizeToAddr("/tmp/agent.sock"))
}

func TestNewServerTLSConfig_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewServerTLSConfig(nil, nil, ClientPolicy{})
	assert.ErrorContains(t, err, "svidSource cannot be nil")
}

func TestSource_CloseIdempotent(t *testing.T) {
	t.Parallel()

	s := &Source{}
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Nil(t, s.X509Source())
}
