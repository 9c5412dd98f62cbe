package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Run(t *testing.T) {
	requireSh(t)
	r := NewExecRunner()

	out, err := r.Run(context.Background(), []string{"sh", "-c", "echo hello"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestExecRunner_Stdin(t *testing.T) {
	requireSh(t)
	r := NewExecRunner()

	out, err := r.Run(context.Background(), []string{"sh", "-c", "cat"}, strings.NewReader("piped"))
	require.NoError(t, err)
	assert.Equal(t, "piped", string(out))
}

func TestExecRunner_Failure(t *testing.T) {
	requireSh(t)
	r := NewExecRunner()

	_, err := r.Run(context.Background(), []string{"sh", "-c", "echo oops >&2; exit 3"}, nil)
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode())
	assert.Contains(t, cmdErr.Error(), "oops")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner()

	_, err := r.Run(context.Background(), []string{"/nonexistent/windowstash-test-binary"}, nil)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, -1, cmdErr.ExitCode())
}

func TestExecRunner_Empty(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyCommand))
}
