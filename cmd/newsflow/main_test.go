package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/newsflow/internal/common"
	"github.com/Veraticus/newsflow/internal/config"
	"github.com/Veraticus/newsflow/internal/controller"
)

// execute runs the CLI against the offline catalog with an empty home
// directory so no user config leaks in.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--offline", "--log-level", "error"}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "newsflow version dev\n", out)
}

func TestTrending(t *testing.T) {
	out, _, err := execute(t, "trending")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Trending Stories\n"))
	assert.Contains(t, out, "Underdogs clinch the championship in overtime thriller")
	assert.Less(t, strings.Index(out, "n101"), strings.Index(out, "n102"))
}

func TestCategories(t *testing.T) {
	out, _, err := execute(t, "categories")
	require.NoError(t, err)
	assert.Equal(t, "Categories\nentertainment\nfinance\nhealth\nnews\nsports\ntechnology\ntravel\n", out)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		missing  []string
	}{
		{
			name:     "keyword with category",
			args:     []string{"search", "--category", "health", "health"},
			contains: []string{"Search Results", "n206", "Clinics expand mental health support for students"},
			missing:  []string{"n101"},
		},
		{
			name:     "multi word query",
			args:     []string{"search", "night", "trains"},
			contains: []string{"n110"},
		},
		{
			name:     "no matches",
			args:     []string{"search", "quidditch"},
			contains: []string{"No articles found. Try different keywords or browse trending stories."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.missing {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	_, _, err := execute(t, "search")
	require.Error(t, err)
}

func TestRecommend(t *testing.T) {
	out, errOut, err := execute(t, "recommend", "--user", "U1", "--model", "bert", "--count", "5")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Recommendations for U1\n"))
	assert.Contains(t, out, "BERT4Rec: Based on your preferences")
	assert.NotContains(t, out, "n101", "seed clicks are excluded")
	assert.Contains(t, errOut, "Generated by BERT4Rec Transformer")
}

func TestRecommend_InvalidSelection(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "count", args: []string{"recommend", "--count", "7"}, want: common.ErrInvalidCount},
		{name: "model", args: []string{"recommend", "--model", "transformer"}, want: common.ErrInvalidModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		filename string
		magic    string
	}{
		{
			name:     "trending",
			args:     []string{"export"},
			filename: "smart_news_report_home_user.pdf",
			magic:    "%PDF-",
		},
		{
			name:     "search",
			args:     []string{"export", "--source", "search", "--query", "health"},
			filename: "smart_news_report_home_user.pdf",
			magic:    "%PDF-",
		},
		{
			name:     "recommend as docx",
			args:     []string{"export", "--source", "recommend", "--user", "U1", "--model", "content", "--format", "docx"},
			filename: "recommendations_U1_content.docx",
			magic:    "PK",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, errOut, err := execute(t, append(tt.args, "--dir", dir)...)
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(dir, tt.filename))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(tt.magic)))
			assert.Contains(t, errOut, "Saved "+tt.filename)
		})
	}
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "empty search result", args: []string{"export", "--source", "search", "--query", "quidditch"}, want: controller.ErrNothingToExport},
		{name: "missing query", args: []string{"export", "--source", "search"}, want: common.ErrEmptyQuery},
		{name: "unknown source", args: []string{"export", "--source", "bookmarks"}, want: common.ErrInvalidConfig},
		{name: "unknown format", args: []string{"export", "--format", "odt"}, want: common.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, _, err := execute(t, append(tt.args, "--dir", dir)...)
			require.ErrorIs(t, err, tt.want)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestHealth_Offline(t *testing.T) {
	_, errOut, err := execute(t, "health")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Offline catalog ready")
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSFLOW_RECOMMEND_USER_ID", "U777")
	out, _, err := execute(t, "recommend", "--count", "5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Recommendations for U777\n"))
}

func TestInitConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recommend:\n  user_id: U42\n"), 0600))

	out, _, err := execute(t, "--config", path, "recommend", "--count", "5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Recommendations for U42\n"))
}

func TestInitConfig_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud", "version")
	require.Error(t, err)
}

func TestNewGateway(t *testing.T) {
	cfg := &config.Config{Mode: config.ModeHTTP, API: config.APIConfig{BaseURL: "ftp://example.com"}}
	_, err := newGateway(context.Background(), cfg, nil)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}
