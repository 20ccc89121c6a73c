package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"reconcile", "extract"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "ghl-updater", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestReconcileCommand_Flags(t *testing.T) {
	dir := reconcileCmd.Flags().Lookup("dir")
	require.NotNil(t, dir, "reconcile command should have --dir flag")
	assert.Equal(t, "", dir.DefValue)

	dry := reconcileCmd.Flags().Lookup("dry-run")
	require.NotNil(t, dry, "reconcile command should have --dry-run flag")
	assert.Equal(t, "false", dry.DefValue)
}

func TestExtractCommand_Flags(t *testing.T) {
	flag := extractCmd.Flags().Lookup("dir")
	require.NotNil(t, flag, "extract command should have --dir flag")
}
