package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Eyevinn/moqabr/internal/abr"
)

func TestDecideCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	db := filepath.Join(env.dir, "abr.db")

	out, _, err := runCLI(t, []string{
		"decide", env.catalogPath,
		"--request", "2:strong",
		"--request", "1:weak",
		"--cycles", "2",
		"--db", db,
	}, env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "video_900")
	require.Contains(t, out, "strong")
	require.Contains(t, out, "Switches: 1")
	require.Contains(t, out, "Session: ")

	out, _, err = runCLI(t, []string{"history", "--db", db}, env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "switch")
	require.Contains(t, out, "0 -> 2")
}

func TestDecideCommandBounds(t *testing.T) {
	env := setupCLITestEnv(t)
	db := filepath.Join(env.dir, "abr.db")

	out, _, err := runCLI(t, []string{
		"decide", env.catalogPath,
		"--request", "2:strong",
		"--max-quality", "1",
		"--db", db,
	}, env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "video_600")
	require.NotContains(t, out, "video_900")

	out, _, err = runCLI(t, []string{"history", "--db", db, "--category", "video"}, env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "quality")
	require.Contains(t, out, "min=- max=1")
}

func TestDecideCommandConfiguredPolicy(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeConfig(t, `
[abr.categories.video]
max_bandwidth = 700000.0
`)
	out, _, err := runCLI(t, []string{"decide", env.catalogPath, "--request", "2"}, env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "video_600")
}

func TestDecideCommandCategoryAndPlayback(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{
		"decide", env.catalogPath,
		"--category", "stream",
	}, env.configPath)
	require.Error(t, err)
	require.Empty(t, out)

	out, _, err = runCLI(t, []string{
		"decide", env.catalogPath,
		"--no-auto-switch",
		"--playback-quality", "1",
		"--request", "2:strong",
	}, env.configPath)
	require.NoError(t, err)
	require.Contains(t, out, "video_600")
	require.Contains(t, out, "Switches: 1")
}

func TestDecideCommandInvalidArgs(t *testing.T) {
	env := setupCLITestEnv(t)
	testCases := []struct {
		desc string
		args []string
	}{
		{desc: "bad request", args: []string{"--request", "x:strong"}},
		{desc: "bad confidence", args: []string{"--request", "1:loud"}},
		{desc: "zero cycles", args: []string{"--cycles", "0"}},
		{desc: "playback quality outside ladder", args: []string{"--playback-quality", "3"}},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			args := append([]string{"decide", env.catalogPath}, tc.args...)
			_, _, err := runCLI(t, args, env.configPath)
			require.Error(t, err)
		})
	}
}

func TestParseRequests(t *testing.T) {
	rules, err := parseRequests([]string{"3", "1:strong", "-1:weak", " 2:WEAK "})
	require.NoError(t, err)
	require.Equal(t, abr.StaticRegistry{
		abr.StaticRule{Quality: 3, Priority: abr.ConfidenceDefault},
		abr.StaticRule{Quality: 1, Priority: abr.ConfidenceStrong},
		abr.StaticRule{Quality: abr.NoChange, Priority: abr.ConfidenceNoChange},
		abr.StaticRule{Quality: 2, Priority: abr.ConfidenceWeak},
	}, rules)

	_, err = parseRequests([]string{"-2"})
	require.Error(t, err)
}
