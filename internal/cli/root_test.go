package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ldframe", cmd.Name())
	assert.NotNil(t, cmd.RunE, "root frames when given a name")
	assert.Contains(t, cmd.Long, "LDFRAME_CONFIG")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"frame", "flatten", "validate", "list", "test", "cache"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestCacheSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"list", "rm", "purge"} {
		sub, _, err := cmd.Find([]string{"cache", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestFrameCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	frameCmd, _, err := cmd.Find([]string{"frame"})
	require.NoError(t, err)

	for _, name := range []string{"schema-dir", "data", "frame-ext", "offline", "cache", "digest", "ascii", "indent"} {
		assert.NotNil(t, frameCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "2", frameCmd.Flags().Lookup("indent").DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	assert.NotNil(t, testCmd.Flags().Lookup("update"))
	assert.NotNil(t, testCmd.Flags().Lookup("filter"))
}

func TestExecute_InvalidFormat(t *testing.T) {
	ws := newWorkspace(t)
	res := runCLI(t, nil, args("frame", "person", ws.flags(), "--format", "yaml")...)

	assert.Equal(t, ExitCommandError, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error [E201]")
	assert.Contains(t, res.stderr, `invalid format "yaml"`)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"schema-dir", "data", "frame-ext", "offline", "cache", "digest", "ascii", "indent"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestExecute_UnknownNameIsMissingFrame(t *testing.T) {
	ws := newWorkspace(t)
	res := runCLI(t, nil, args("bogus", ws.flags())...)
	assert.Equal(t, ExitCommandError, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error [E202]")
}

func TestExecute_UnknownFlag(t *testing.T) {
	res := runCLI(t, nil, "frame", "person", "--bogus")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "E201")
}
