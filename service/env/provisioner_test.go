package env

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenmetrics/graderun/service/action/system/exec"
)

type scriptedRunner struct {
	inputs  []*exec.Input
	status  int
	stdout  string
	stderr  string
	onVenv  func(dir string)
	onError error
}

func (r *scriptedRunner) Execute(ctx context.Context, input *exec.Input, output *exec.Output) error {
	r.inputs = append(r.inputs, input)
	if r.onError != nil {
		return r.onError
	}
	for _, command := range input.Commands {
		if strings.Contains(command, "-m venv") && r.onVenv != nil {
			parts := strings.Fields(command)
			r.onVenv(parts[len(parts)-1])
		}
	}
	output.Status = r.status
	output.Stdout = r.stdout
	output.Stderr = r.stderr
	return nil
}

func makeVenv(t *testing.T) func(dir string) {
	t.Helper()
	return func(dir string) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
}

func TestProvisioner_AcquireCreatesThenReuses(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "venv")
	runner := &scriptedRunner{onVenv: makeVenv(t)}
	provisioner := New(runner, nil, "python3", dir, 0)

	lease, created, err := provisioner.Acquire(context.Background())
	require.Nil(t, err)
	assert.True(t, created)
	assert.Equal(t, dir, lease.Dir())
	require.Equal(t, 1, len(runner.inputs))
	assert.Equal(t, "python3 -m venv "+dir, runner.inputs[0].Commands[0])

	// a second acquisition must reuse the environment without re-creation
	lease, created, err = provisioner.Acquire(context.Background())
	require.Nil(t, err)
	assert.False(t, created)
	assert.NotNil(t, lease)
	assert.Equal(t, 1, len(runner.inputs), "no additional commands expected")
}

func TestProvisioner_AcquireFailure(t *testing.T) {
	runner := &scriptedRunner{status: 1, stderr: "no such interpreter"}
	provisioner := New(runner, nil, "python3", filepath.Join(t.TempDir(), "venv"), 0)

	_, _, err := provisioner.Acquire(context.Background())
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "no such interpreter")
}

func TestProvisioner_Install(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "venv")
	runner := &scriptedRunner{stdout: "Successfully installed openai"}
	provisioner := New(runner, nil, "python3", dir, 0)
	lease := NewLease(dir)

	sink := &bytes.Buffer{}
	err := provisioner.Install(context.Background(), lease, "requirements.txt", sink)
	require.Nil(t, err)

	require.Equal(t, 1, len(runner.inputs))
	input := runner.inputs[0]
	require.Equal(t, 2, len(input.Commands))
	assert.Equal(t, lease.Python()+" -m pip install --upgrade pip", input.Commands[0])
	assert.Equal(t, lease.Pip()+" install --upgrade -r requirements.txt", input.Commands[1])
	assert.Equal(t, dir, input.Env["VIRTUAL_ENV"])
	assert.Contains(t, sink.String(), "Successfully installed openai")
}

func TestProvisioner_InstallFailure(t *testing.T) {
	runner := &scriptedRunner{status: 2, stderr: "could not resolve package"}
	provisioner := New(runner, nil, "python3", t.TempDir(), 0)

	sink := &bytes.Buffer{}
	err := provisioner.Install(context.Background(), NewLease("venv"), "requirements.txt", sink)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "status 2")
	assert.Contains(t, sink.String(), "could not resolve package", "install output still reaches the log sink")
}

func TestLease_Release(t *testing.T) {
	lease := NewLease("venv")
	assert.False(t, lease.Released())
	lease.Release()
	lease.Release()
	assert.True(t, lease.Released())
}

func TestLease_Environ(t *testing.T) {
	lease := NewLease("/opt/grader/venv")
	environ := lease.Environ()
	assert.Equal(t, "/opt/grader/venv", environ["VIRTUAL_ENV"])
	assert.True(t, strings.HasPrefix(environ["PATH"], "/opt/grader/venv/bin"))
}
