package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutorunCommand(t *testing.T) {
	assert.Equal(t, `"/opt/strata pad/stratapad" run`, autorunCommand("/opt/strata pad/stratapad", nil))
	assert.Equal(t, `"/bin/stratapad" run --no-tray --data-dir "/my data"`,
		autorunCommand("/bin/stratapad", []string{"--no-tray", "--data-dir", "/my data"}))
}

func TestAutorunExe(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "  ", want: ""},
		{name: "quoted", value: `"/opt/strata pad/stratapad" run`, want: filepath.Clean("/opt/strata pad/stratapad")},
		{name: "bare", value: "/bin/stratapad run --no-tray", want: filepath.Clean("/bin/stratapad")},
		{name: "round trip", value: autorunCommand("/x/y/stratapad", []string{"--tray"}), want: filepath.Clean("/x/y/stratapad")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, autorunExe(tt.value))
		})
	}
}
