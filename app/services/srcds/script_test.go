package srcds

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrepareLogFile_SymlinkIdempotent(t *testing.T) {
	logDir := t.TempDir()

	first, err := PrepareLogFile(logDir, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(logDir, "20240301-120000-server.log"), first)

	second, err := PrepareLogFile(logDir, time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	// Exactly one symlink, pointing at the most recent run's log
	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)

	links := 0
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			links++
		}
	}
	require.Equal(t, 1, links)

	target, err := os.Readlink(filepath.Join(logDir, LatestLogName))
	require.NoError(t, err)
	require.Equal(t, second, target)
}

func TestBuildStartScript(t *testing.T) {
	script := BuildStartScript(ScriptParams{
		ServerDir:    "/srv/game server",
		LogFile:      "/var/log/srcds/20240301-120000-server.log",
		ExitCodeFile: "/tmp/srcds/server.exit-code",
		Args:         []string{"-game", "csgo", "-console"},
	})

	require.True(t, len(script) > 0)
	require.Contains(t, script, "#!/bin/bash")
	require.Contains(t, script, "cd '/srv/game server'")
	require.Contains(t, script, "stdbuf -i0 -o0 -e0 ./srcds_run -game csgo -console")
	require.Contains(t, script, "2>&1 | tee -a /var/log/srcds/20240301-120000-server.log")
	require.Contains(t, script, "code=${PIPESTATUS[0]}")
	require.Contains(t, script, "echo ${code} > /tmp/srcds/server.exit-code")

	// No affinity configured, no pinning prefix and no banner
	require.NotContains(t, script, "taskset")
	require.NotContains(t, script, "cpu affinity")
}

func TestBuildStartScript_WithAffinity(t *testing.T) {
	script := BuildStartScript(ScriptParams{
		ServerDir:    "/srv/server",
		LogFile:      "/var/log/srcds/server.log",
		ExitCodeFile: "/tmp/srcds/server.exit-code",
		Affinity:     "0-3",
		Cores:        8,
		Args:         []string{"-game", "csgo"},
	})

	require.Contains(t, script, `echo "cpu affinity: 0-3 (8 cores detected)"`)
	require.Contains(t, script, "taskset -c 0-3 ./srcds_run")
}

func TestWriteStartScript(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := WriteStartScript(tmpDir, "#!/bin/bash\nexit 0\n")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmpDir, StartScriptName), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestReadLastExitCode(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ReadLastExitCode(tmpDir)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ExitCodeFileName), []byte("137\n"), 0644))

	code, err := ReadLastExitCode(tmpDir)
	require.NoError(t, err)
	require.Equal(t, 137, code)
}
