package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ha1tch/thinkmap/pkg/textlayout"
	"github.com/ha1tch/thinkmap/pkg/think"
)

func TestDefaultMatchesContextDefaults(t *testing.T) {
	o := Default()
	require.NoError(t, o.Validate())
	assert.Equal(t, think.DefaultOptions(), o.Think())
	assert.Equal(t, 400*time.Millisecond, o.DoubleClick())
}

func TestLoadMissingFile(t *testing.T) {
	o, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), o)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[node]
greedy = true
font_size = 16

[action]
radius = 10

[editor]
store = "sqlite"
`), 0o644))

	o, err := Load(path)
	require.NoError(t, err)

	layout := o.Layout()
	assert.Equal(t, textlayout.StrategyGreedy, layout.Strategy)
	assert.Equal(t, 16.0, layout.Font.Size)
	assert.Equal(t, 15.0, layout.Padding, "untouched keys keep defaults")

	th := o.Think()
	assert.Equal(t, 10.0, th.Shape.ActionRadius)
	assert.Equal(t, (10.0+7)*2+5, th.SelectionDiffMin)
	assert.Equal(t, th.SelectionDiffMin+10, th.SelectionDiffMax)
	assert.Equal(t, "thoughts.db", filepath.Base(o.StorePath()))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		msg  string
	}{
		{"malformed", "[node\nfont_size = 1", "config.toml"},
		{"wrong type", "[animation]\nfps = \"fast\"", "fps"},
		{"zero fps", "[animation]\nfps = 0", "animation.fps must be greater than 0"},
		{"bad store", "[editor]\nstore = \"s3\"", "editor.store must be one of: dir sqlite"},
		{"zero minimum width", "[node]\npadding = 0\nminimum_text_width = 0", "node.minimumtextwidth must be greater than 0"},
		{"greedy cap", "[node]\nmax_greedy_words = 20", "node.maxgreedywords must be at most 16"},
		{"bad level", "[log]\nlevel = \"loud\"", "log.level must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.toml), 0o644))
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	o := Default()
	o.Node.Wrap = false
	o.ZOrder.Connection = 7
	o.Log.File = "/tmp/think.log"
	require.NoError(t, Save(path, o))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, "/cfg/thinkmap/config.toml", Path())
	assert.Equal(t, "/data/thinkmap/thoughts", Default().StorePath())

	o := Default()
	o.Editor.StorePath = "/elsewhere"
	assert.Equal(t, "/elsewhere", o.StorePath())
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(path, Default()))

	w, err := NewWatcher(path, Default(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	got := make(chan *Options, 4)
	w.OnChange(func(o *Options) { got <- o })

	// Unrelated files and invalid contents are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("[animation]\nfps = 0\n"), 0o644))
	time.Sleep(2 * debounceDelay)
	assert.Empty(t, got)

	o := Default()
	o.Animation.FPS = 50
	require.NoError(t, Save(path, o))

	select {
	case next := <-got:
		assert.Equal(t, 50, next.Animation.FPS)
		assert.Equal(t, 50, w.Current().Animation.FPS)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}
