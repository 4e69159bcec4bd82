package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUserKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "plain key", key: "5511999999999", want: true},
		{name: "address-style key", key: "5511999999999@c.us", want: true},
		{name: "empty", key: "", want: false},
		{name: "whitespace only", key: "   ", want: false},
		{name: "group conversation", key: "1234567890@g.us", want: false},
		{name: "status broadcast", key: "status@broadcast", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUserKey(tt.key))
		})
	}
}

func TestRegistryReconnect(t *testing.T) {
	registry := NewRegistry()

	first := registry.add("user-1", nil)
	second := registry.add("user-1", nil)

	// Removing the stale connection must not drop the newer one.
	registry.remove("user-1", first)

	got, ok := registry.get("user-1")
	assert.True(t, ok)
	assert.Same(t, second, got)

	registry.remove("user-1", second)
	_, ok = registry.get("user-1")
	assert.False(t, ok)
}
