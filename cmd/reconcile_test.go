//go:build !integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ghl-updater/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Paths: config.PathsConfig{
			Dir:         ".",
			Records:     "old-data.json",
			Source:      "ghl-connection.js",
			OutputJSON:  "updated-data.json",
			OutputXLSX:  "updated-data.xlsx",
			ChangedJSON: "changed-entries.json",
			ChangedXLSX: "changed-entries.xlsx",
		},
		Source: config.SourceConfig{Format: "auto"},
		Export: config.ExportConfig{SheetName: "LocationData", XLSX: true},
		Log:    config.LogConfig{Level: "info", Format: "console"},
	}
}

func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	source := `{ 'Microsite Name': 'Acme', 'GHL Location ID': 'new1', 'Location Token': 'tokA' }`
	records := `[{"Microsite Name":"Acme","GHL Location ID":"old1","Location Token":"tokA"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ghl-connection.js"), []byte(source), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old-data.json"), []byte(records), 0o644))
}

func setReconcileFlags(t *testing.T, dir string, dryRun bool) {
	t.Helper()
	oldDir, oldDry := reconcileDir, reconcileDryRun
	reconcileDir, reconcileDryRun = dir, dryRun
	t.Cleanup(func() { reconcileDir, reconcileDryRun = oldDir, oldDry })

	reconcileCmd.SetContext(context.Background())
	t.Cleanup(func() { reconcileCmd.SetContext(context.TODO()) })
}

func TestReconcileCmd_Run(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	cfg = testConfig()
	setReconcileFlags(t, dir, false)

	require.NoError(t, reconcileCmd.RunE(reconcileCmd, nil))

	assert.FileExists(t, filepath.Join(dir, "updated-data.json"))
	assert.FileExists(t, filepath.Join(dir, "updated-data.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "changed-entries.json"))
	assert.FileExists(t, filepath.Join(dir, "changed-entries.xlsx"))

	data, err := os.ReadFile(filepath.Join(dir, "changed-entries.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Microsite Name":"Acme","GHL Location ID":"new1","Location Token":"tokA","updated":"ID"}]`, string(data))
}

func TestReconcileCmd_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir)

	cfg = testConfig()
	setReconcileFlags(t, dir, true)

	require.NoError(t, reconcileCmd.RunE(reconcileCmd, nil))
	assert.NoFileExists(t, filepath.Join(dir, "updated-data.json"))
}

func TestReconcileCmd_MissingInputs(t *testing.T) {
	dir := t.TempDir()

	cfg = testConfig()
	setReconcileFlags(t, dir, false)

	err := reconcileCmd.RunE(reconcileCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile")
	assert.Contains(t, err.Error(), "read source")
}

func TestReconcileCmd_InvalidConfig(t *testing.T) {
	cfg = testConfig()
	cfg.Paths.Records = ""
	setReconcileFlags(t, t.TempDir(), false)

	err := reconcileCmd.RunE(reconcileCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths.records is required")
}
