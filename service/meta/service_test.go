package meta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Load(t *testing.T) {
	dir := t.TempDir()
	location := filepath.Join(dir, "config.yaml")
	document := `workdir: ${env.GRADER_HOME:/opt/grader}
logDir: logs
retentionDays: 14
defaultArgs:
  - --sheet-type
  - media
`
	require.Nil(t, os.WriteFile(location, []byte(document), 0o644))

	type config struct {
		Workdir       string   `yaml:"workdir"`
		LogDir        string   `yaml:"logDir"`
		RetentionDays int      `yaml:"retentionDays"`
		DefaultArgs   []string `yaml:"defaultArgs"`
	}

	t.Setenv("GRADER_HOME", "/srv/grader")
	actual := &config{}
	err := New().Load(context.Background(), location, actual)
	require.Nil(t, err)
	assert.Equal(t, "/srv/grader", actual.Workdir)
	assert.Equal(t, "logs", actual.LogDir)
	assert.Equal(t, 14, actual.RetentionDays)
	assert.Equal(t, []string{"--sheet-type", "media"}, actual.DefaultArgs)
}

func TestService_LoadErrors(t *testing.T) {
	err := New().Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), &struct{}{})
	assert.NotNil(t, err)

	dir := t.TempDir()
	location := filepath.Join(dir, "broken.yaml")
	require.Nil(t, os.WriteFile(location, []byte("workdir: [unclosed"), 0o644))
	err = New().Load(context.Background(), location, &struct{}{})
	assert.NotNil(t, err)
}
