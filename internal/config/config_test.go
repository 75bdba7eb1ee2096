package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  name: Northwind Digital\n"))
	require.NoError(t, err)

	assert.Equal(t, "Northwind Digital", cfg.Site.Name)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []RouteConfig{{Prefix: "/blog", Source: SourceStatic}}, cfg.Server.Routes)
	assert.Equal(t, []string{"*.mdx"}, cfg.Content.Patterns)
	assert.Equal(t, 3, cfg.Content.RelatedLimit)
	assert.Equal(t, 3, cfg.Hosted.Retry.MaxAttempts)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Uses(SourceStatic))
	assert.False(t, cfg.Uses(SourcePostgres))
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SITECONTENT_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeConfig(t, `
database:
  host: db.internal
  user: site
  password: ${SITECONTENT_DB_PASSWORD}
  dbname: site
content:
  dir: ./content
  refresh_interval: 10m
  watch: true
server:
  routes:
    - prefix: /blog
      source: static
    - prefix: /insights
      source: postgres
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "host=db.internal port=5432 user=site password=s3cret dbname=site sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 10*time.Minute, cfg.Content.RefreshInterval)
	assert.True(t, cfg.Content.Watch)
	assert.Len(t, cfg.Server.Routes, 2)
	assert.True(t, cfg.Uses(SourcePostgres))
}

func TestLoad_InvalidRoutes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "postgres without database",
			body: "server:\n  routes:\n    - {prefix: /blog, source: postgres}\n",
			want: "database.host is empty",
		},
		{
			name: "hosted without base url",
			body: "server:\n  routes:\n    - {prefix: /blog, source: hosted}\n",
			want: "hosted.base_url is empty",
		},
		{
			name: "unknown source",
			body: "server:\n  routes:\n    - {prefix: /blog, source: sqlite}\n",
			want: `unknown source "sqlite"`,
		},
		{
			name: "duplicate prefix",
			body: "server:\n  routes:\n    - {prefix: /blog, source: static}\n    - {prefix: /blog, source: static}\n",
			want: "duplicate route prefix",
		},
		{
			name: "duplicate prefix after normalization",
			body: "server:\n  routes:\n    - {prefix: /blog, source: static}\n    - {prefix: blog/, source: static}\n",
			want: `duplicate route prefix "/blog"`,
		},
		{
			name: "duplicate root prefix",
			body: "server:\n  routes:\n    - {prefix: /, source: static}\n    - {prefix: \"\", source: static}\n",
			want: `duplicate route prefix ""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_NormalizesRoutePrefixes(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  routes:
    - {prefix: "blog/", source: static}
    - {prefix: "//preview//", source: static, show_drafts: true}
    - {prefix: "/", source: static}
`))
	require.NoError(t, err)

	assert.Equal(t, []RouteConfig{
		{Prefix: "/blog", Source: SourceStatic},
		{Prefix: "/preview", Source: SourceStatic, ShowDrafts: true},
		{Prefix: "", Source: SourceStatic},
	}, cfg.Server.Routes)
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"/":       "",
		"blog":    "/blog",
		"/blog/":  "/blog",
		"a/b/":    "/a/b",
		"//blog/": "/blog",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePrefix(in), "NormalizePrefix(%q)", in)
	}
}
