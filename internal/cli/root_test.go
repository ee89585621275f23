package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Identity(t *testing.T) {
	assert.Equal(t, "hostprep", rootCmd.Name())
	assert.True(t, rootCmd.SilenceUsage, "errors are rendered once, by Execute")
	assert.True(t, rootCmd.SilenceErrors)
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	config := flags.Lookup("config")
	require.NotNil(t, config, "should have --config")
	assert.Equal(t, "string", config.Value.Type())
	assert.Equal(t, "", config.DefValue)

	jsonFlag := flags.Lookup("json")
	require.NotNil(t, jsonFlag, "should have --json")
	assert.Equal(t, "false", jsonFlag.DefValue)

	noColor := flags.Lookup("no-color")
	require.NotNil(t, noColor, "should have --no-color")
	assert.Equal(t, "false", noColor.DefValue)
}

func TestConfig_ReturnsFlagValue(t *testing.T) {
	original := configFlag
	defer func() { configFlag = original }()

	configFlag = ""
	assert.Empty(t, Config())

	configFlag = "/etc/hostprep/config.yaml"
	assert.Equal(t, "/etc/hostprep/config.yaml", Config())
}
