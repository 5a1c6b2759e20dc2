package textutil

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapitalizeWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mountain valley", "Mountain Valley"},
		{"ALERTS_PROVIDER", "Alerts_provider"},
		{"", ""},
		{"double  space", "Double  Space"},
		{"élan vital", "Élan Vital"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CapitalizeWords(tt.in))
		})
	}
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "Mountain valley", CapitalizeFirst("mountain valley"))
	assert.Equal(t, "ABC", CapitalizeFirst("ABC"))
	assert.Equal(t, "", CapitalizeFirst(""))
	assert.Equal(t, "3 houses", CapitalizeFirst("3 houses"))
}

func TestRandomColor(t *testing.T) {
	re := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, RandomColor())
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"iso with millis", "2024-03-09T16:28:23.780Z", "3/9/2024"},
		{"iso no zone", "2023-11-21T00:00:00", "11/21/2023"},
		{"date only", "2023-11-21", "2023-11-21"},
		{"free text", "yesterday", "yesterday"},
		{"out of range", "2023-13-40T00:00:00", "2023-13-40T00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}
