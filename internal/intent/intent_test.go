package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectThankYou(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Thanks a lot!", true},
		{"thank you so much", true},
		{"thx", true},
		{"Much appreciated", true},
		{"I appreciate your help", true},
		{"ok bye", true},
		{"Goodbye!", true},
		{"what are your shipping times", false},
		{"thxxx", false},
	}
	for _, tt := range tests {
		resp, ok := DetectThankYou(tt.in)
		assert.Equal(t, tt.want, ok, "input %q", tt.in)
		if tt.want {
			assert.Equal(t, ThankResponse, resp)
		} else {
			assert.Empty(t, resp)
		}
	}
}

func TestDetectExit(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"bye", true},
		{"BYE", true},
		{"goodbye", true},
		{"see you", true},
		{"exit", true},
		{"quit", true},
		{"ok bye then", true},
		{"goodbyeee", false},
		{"the exits are clearly marked", false},
		{"thanks", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectExit(tt.in), "input %q", tt.in)
	}
}
