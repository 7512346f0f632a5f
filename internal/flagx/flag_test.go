package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFilePath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short flag with separate value", []string{"-c", "conf.json", "-a", "localhost"}, "conf.json"},
		{"long flag with equals", []string{"--config=alt.json", "-a", "localhost"}, "alt.json"},
		{"long flag with separate value", []string{"--secret-key", "k", "--config", "x.json"}, "x.json"},
		{"last one wins", []string{"--config=first.json", "-c", "second.json"}, "second.json"},
		{"unknown flags ignored", []string{"-x", "1", "--y=2", "positional"}, ""},
		{"no args", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFilePath(tt.args))
		})
	}
}

func TestNewFlagSet_SkipsUnknownFlags(t *testing.T) {
	var addr string
	fs := NewFlagSet("t")
	fs.StringVarP(&addr, "http-addr", "a", "", "")

	require.NoError(t, fs.Parse([]string{"--unknown=1", "-a", ":8080", "--other"}))
	assert.Equal(t, ":8080", addr)
}
