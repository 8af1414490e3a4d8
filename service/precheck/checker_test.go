package precheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenmetrics/graderun/service/action/system/exec"
)

type scriptedRunner struct {
	inputs []*exec.Input
	status int
}

func (r *scriptedRunner) Execute(ctx context.Context, input *exec.Input, output *exec.Output) error {
	r.inputs = append(r.inputs, input)
	output.Status = r.status
	return nil
}

func TestChecker_Interpreter(t *testing.T) {
	runner := &scriptedRunner{}
	checker := New(runner)
	assert.Nil(t, checker.Interpreter(context.Background(), nil, "python3"))
	require.Equal(t, 1, len(runner.inputs))
	assert.Equal(t, []string{"command -v python3"}, runner.inputs[0].Commands)

	runner.status = 127
	err := checker.Interpreter(context.Background(), nil, "python3")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "python3")
}

func TestChecker_Artifacts(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "requirements.txt")
	require.Nil(t, os.WriteFile(manifest, []byte("openai\n"), 0o644))

	checker := New(&scriptedRunner{})
	err := checker.Artifacts(context.Background(),
		Artifact{Role: "dependency manifest", Path: manifest})
	assert.Nil(t, err)

	err = checker.Artifacts(context.Background(),
		Artifact{Role: "dependency manifest", Path: manifest},
		Artifact{Role: "grading program", Path: filepath.Join(dir, "absent.py")})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "grading program")
	assert.Contains(t, err.Error(), "absent.py")
}

func TestChecker_Secrets(t *testing.T) {
	dir := t.TempDir()
	checker := New(&scriptedRunner{})

	present, err := checker.Secrets(context.Background(), filepath.Join(dir, ".env"))
	assert.Nil(t, err)
	assert.False(t, present)

	require.Nil(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=k\n"), 0o600))
	present, err = checker.Secrets(context.Background(), filepath.Join(dir, ".env"))
	assert.Nil(t, err)
	assert.True(t, present)
}
