package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordCommand_PrintsContent(t *testing.T) {
	server := newTestProvider(t)
	cfg := writeProviderConfig(t, server.URL)

	cmd := NewPasswordCommand(cfg)
	output := captureCommandOutput(t, cmd, []string{"--object", "DatabaseAccount"})

	// Only the content, no metadata and no trailing newline
	assert.Equal(t, "s3cr3t", output)
}

func TestPasswordCommand_EmptyContent(t *testing.T) {
	server := newTestProvider(t)
	cfg := writeProviderConfig(t, server.URL)

	cmd := NewPasswordCommand(cfg)
	cmd.SetArgs([]string{"--object", "EmptyAccount"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no password content")
}

func TestPasswordCommand_NonexistentObject(t *testing.T) {
	server := newTestProvider(t)
	cfg := writeProviderConfig(t, server.URL)

	cmd := NewPasswordCommand(cfg)
	cmd.SetArgs([]string{"--object", "NoSuchAccount"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused to serve 'NoSuchAccount'")
}

func TestPasswordCommand_MissingObjectFlag(t *testing.T) {
	server := newTestProvider(t)
	cfg := writeProviderConfig(t, server.URL)

	cmd := NewPasswordCommand(cfg)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
