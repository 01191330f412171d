package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tunogya/ossa/pkg/dataset"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "window_len: 24\nhorizon: 5\nsplit_fraction: 0.7\nlabel_layout: day-major\n")

	cfg, err := dataset.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 24, cfg.WindowLen)
	require.Equal(t, 5, cfg.Horizon)
	require.Equal(t, 0.7, cfg.SplitFraction)
	require.Equal(t, "day-major", cfg.LabelLayout)
}

func TestLoadConfig_UnsetFieldsKeepDefaults(t *testing.T) {
	path := writeConfig(t, "horizon: 5\n")

	cfg, err := dataset.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, dataset.DefaultConfig().WindowLen, cfg.WindowLen)
	require.Equal(t, 5, cfg.Horizon)
	require.Equal(t, dataset.DefaultConfig().SplitFraction, cfg.SplitFraction)
}

func TestLoadConfig_Validation(t *testing.T) {
	for _, content := range []string{
		"window_len: 0\n",
		"horizon: -1\n",
		"split_fraction: 1.5\n",
	} {
		path := writeConfig(t, content)
		_, err := dataset.LoadConfig(path)
		require.Error(t, err, "content %q", content)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := dataset.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
