package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/generate-audio", "/generate-audio"},
		{"/upload-audio", "/upload-audio"},
		{"/audios", "/audios"},
		{"/download-audio", "/download-audio"},
		{"/delete-audio", "/delete-audio"},
		{"/metrics", "/metrics"},
		{"/no-such-route", "/unknown"},
		{"/audios/extra", "/unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePath(tt.in), "input %q", tt.in)
	}
}
