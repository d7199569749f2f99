package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "site 54", 10, "site 54"},
		{"exact", "abc", 3, "abc"},
		{"long", "abcdef", 3, "abc..."},
		{"multibyte", "ééééé", 2, "éé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateString(tt.input, tt.maxLen))
		})
	}
}

func TestSanitizeSQL(t *testing.T) {
	assert.Equal(t, "", SanitizeSQL(""))
	assert.Equal(t,
		"SELECT * FROM assets WHERE vendor = ? AND site = 54",
		SanitizeSQL("SELECT * FROM assets WHERE vendor = 'O''Brien' AND site = 54"))
	assert.Equal(t,
		"SELECT * FROM assets WHERE hostname LIKE ?",
		SanitizeSQL("SELECT * FROM assets WHERE hostname LIKE '%server01%'"))

	long := "SELECT * FROM assets WHERE site = 1" + strings.Repeat(" OR site = 1", 20)
	assert.Len(t, []rune(SanitizeSQL(long)), MaxLogLength+3)
}

func TestNew(t *testing.T) {
	logger, err := New("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = New("", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = New("loud", false)
	assert.Error(t, err)
}
