// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsDefault(t *testing.T) {
	l := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(NewJSONHandler(&buf, FromVerbosity(3)))
	defer SetDefault(DiscardHandler())

	l.Info("hello", "n", 1)
	l.Debug("hidden")
	l.With("staker", "abc").Warn("careful")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, float64(1), rec["n"])

	require.NoError(t, json.Unmarshal(lines[1], &rec))
	assert.Equal(t, "abc", rec["staker"])
	assert.Equal(t, "test", rec["pkg"])

	assert.True(t, l.Enabled(LevelInfo))
	assert.False(t, l.Enabled(LevelDebug))
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewTerminalHandler(&buf, FromVerbosity(5), false))
	defer SetDefault(DiscardHandler())

	Root().Trace("trace line", "k", "v")
	assert.Contains(t, buf.String(), "trace line")
	assert.Contains(t, buf.String(), "k=v")
}

func TestLevelVar(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelWarn)
	SetDefault(NewJSONHandler(&buf, &level))
	defer SetDefault(DiscardHandler())

	Root().Info("dropped")
	assert.Zero(t, buf.Len())

	level.Set(LevelDebug)
	Root().Info("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.Equal(t, LevelInfo, FromVerbosity(3))
}

func TestTerminalLevelVar(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelInfo)
	SetDefault(NewTerminalHandler(&buf, &level, false))
	defer SetDefault(DiscardHandler())

	l := WithContext("pkg", "test")
	l.Debug("quiet")
	assert.False(t, l.Enabled(LevelDebug))
	assert.Zero(t, buf.Len())

	level.Set(LevelTrace)
	assert.True(t, l.Enabled(LevelTrace))
	l.Trace("loud", "k", "v")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "pkg=test")
}
