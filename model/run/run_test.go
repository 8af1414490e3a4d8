package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ArgumentResolution(t *testing.T) {
	defaults := []string{"--sheet-type", "media", "--max-records", "10"}

	testCases := []struct {
		description   string
		args          []string
		expectArgs    []string
		expectDefault bool
	}{
		{
			description:   "no arguments fall back to the default set",
			args:          nil,
			expectArgs:    []string{"--sheet-type", "media", "--max-records", "10"},
			expectDefault: true,
		},
		{
			description:   "explicit arguments forwarded verbatim and in order",
			args:          []string{"--sheet-type", "blog", "--max-records", "50", "--dry-run"},
			expectArgs:    []string{"--sheet-type", "blog", "--max-records", "50", "--dry-run"},
			expectDefault: false,
		},
		{
			description:   "a single argument suppresses all defaults",
			args:          []string{"--help"},
			expectArgs:    []string{"--help"},
			expectDefault: false,
		},
	}

	for _, testCase := range testCases {
		aRun := New(testCase.args, defaults)
		assert.Equal(t, testCase.expectArgs, aRun.Args, testCase.description)
		assert.Equal(t, testCase.expectDefault, aRun.Defaulted, testCase.description)
		assert.NotEmpty(t, aRun.ID, testCase.description)
	}
}

func TestNew_DoesNotAliasDefaults(t *testing.T) {
	defaults := []string{"media", "10"}
	aRun := New(nil, defaults)
	aRun.Args[0] = "blog"
	assert.Equal(t, "media", defaults[0])
}

func TestOutcome_Success(t *testing.T) {
	assert.True(t, (&Outcome{}).Success())
	assert.False(t, (&Outcome{ExitCode: 3}).Success())
	var missing *Outcome
	assert.False(t, missing.Success())
}
