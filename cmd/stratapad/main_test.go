package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindUserConfig(t *testing.T) {
	t.Setenv("STRATAPAD_CONFIG", "")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "none", args: []string{"run"}, want: ""},
		{name: "equals", args: []string{"--config=my.yaml", "run"}, want: "my.yaml"},
		{name: "separate", args: []string{"run", "--config", "c.toml"}, want: "c.toml"},
		{name: "dangling", args: []string{"--config"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findUserConfig(tt.args))
		})
	}
}

func TestFindUserConfigEnv(t *testing.T) {
	t.Setenv("STRATAPAD_CONFIG", "env.json")
	assert.Equal(t, "env.json", findUserConfig(nil))
}

func TestDescription(t *testing.T) {
	assert.Contains(t, Description(), "Version:")
}
