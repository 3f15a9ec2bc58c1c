package notifier

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		cmd  string
		args []string
	}{
		{"/run", "/run", nil},
		{"/latest 5", "/latest", []string{"5"}},
		{"  /latest   5  extra ", "/latest", []string{"5", "extra"}},
		{"/RUN", "/run", nil},
		{"/latest@DCABenchBot 3", "/latest", []string{"3"}},
		{"", "", nil},
		{"   ", "", nil},
	}
	for _, tt := range tests {
		cmd, args := parseCommand(tt.in)
		if cmd != tt.cmd {
			t.Errorf("%q: expected command %q, got %q", tt.in, tt.cmd, cmd)
		}
		if len(args) != len(tt.args) || (len(args) > 0 && !reflect.DeepEqual(args, tt.args)) {
			t.Errorf("%q: expected args %v, got %v", tt.in, tt.args, args)
		}
	}
}
