package grader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenmetrics/graderun/service/action/system/exec"
	"github.com/tokenmetrics/graderun/service/env"
)

type scriptedRunner struct {
	inputs []*exec.Input
	status int
	stdout string
	stderr string
	err    error
}

func (r *scriptedRunner) Execute(ctx context.Context, input *exec.Input, output *exec.Output) error {
	r.inputs = append(r.inputs, input)
	output.Status = r.status
	output.Stdout = r.stdout
	output.Stderr = r.stderr
	return r.err
}

func TestInvoker_Invoke(t *testing.T) {
	runner := &scriptedRunner{status: 0, stdout: "graded 10 records"}
	lease := env.NewLease("/opt/grader/venv")
	invoker := New(runner, nil, "/opt/grader/sponsor_grader.py", 0)

	result, err := invoker.Invoke(context.Background(), lease,
		[]string{"--sheet-type", "media", "--max-records", "10"}, map[string]string{"OPENAI_API_KEY": "k"})
	require.Nil(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "graded 10 records", result.Output)

	require.Equal(t, 1, len(runner.inputs))
	input := runner.inputs[0]
	require.Equal(t, 1, len(input.Commands))
	assert.Equal(t,
		"/opt/grader/venv/bin/python /opt/grader/sponsor_grader.py --sheet-type media --max-records 10",
		input.Commands[0])
	assert.Equal(t, "/opt/grader/venv", input.Env["VIRTUAL_ENV"])
	assert.Equal(t, "k", input.Env["OPENAI_API_KEY"])
}

func TestInvoker_NonZeroExitIsNotAnError(t *testing.T) {
	runner := &scriptedRunner{status: 3, stderr: "rate limited"}
	invoker := New(runner, nil, "grade.py", 0)

	result, err := invoker.Invoke(context.Background(), env.NewLease("venv"), nil, nil)
	require.Nil(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "rate limited", result.Stderr)
}

func TestQuote(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{"media", "media"},
		{"--max-records", "--max-records"},
		{"", "''"},
		{"two words", "'two words'"},
		{"it's", `'it'\''s'`},
		{"a$b", "'a$b'"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, Quote(testCase.input), testCase.input)
	}
}
