package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
)

func TestLoader_Load_HCL(t *testing.T) {
	dir := t.TempDir()
	createFile(t, dir, domain.HCLConfigFileName, `
project "demo" {
  lang       = "java"
  output_dir = "target"
}

java {
  main_class = "demo.Main"
  junit_jar  = "lib/junit-platform-console-standalone.jar"
}

dependencies = {
  "com.google.guava:guava" = "33.0.0-jre"
}

cache {
  remote = "https://cache.example.com"
  token  = env.FORGE_CACHE_TOKEN
  push   = true
}

task "lint" {
  command    = "checkstyle -c style.xml src"
  depends_on = ["compile"]
  timeout    = "2m"
}
`)

	p, err := newLoader(t, map[string]string{"FORGE_CACHE_TOKEN": "hcl-token"}).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, domain.LangJava, p.Lang)
	assert.Equal(t, "target", p.OutputDir)
	assert.Equal(t, "demo.Main", p.Settings.MainEntry)
	assert.Equal(t, "lib/junit-platform-console-standalone.jar", p.Settings.TestClasspath)
	assert.Equal(t, map[string]string{"com.google.guava:guava": "33.0.0-jre"}, p.Dependencies)
	assert.Equal(t, domain.RemoteCacheConfig{URL: "https://cache.example.com", Token: "hcl-token", Push: true}, p.Remote)

	require.Len(t, p.Tasks, 1)
	assert.Equal(t, "lint", p.Tasks[0].Name)
	assert.Equal(t, []string{"compile"}, p.Tasks[0].DependsOn)
	assert.Equal(t, 2*time.Minute, p.Tasks[0].Timeout)
}

func TestLoader_Load_HCLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "syntax error", content: "project \"demo\" {\n", wantErr: domain.ErrConfigParseFailed},
		{name: "unknown env variable", content: "project \"demo\" {\n  lang = env.NOPE\n}\n", wantErr: domain.ErrConfigParseFailed},
		{name: "missing project block", content: "cache {\n  push = true\n}\n", wantErr: domain.ErrMissingProjectName},
		{
			name:    "duplicate task",
			content: "project \"demo\" {\n  lang = \"java\"\n}\ntask \"a\" {}\ntask \"a\" {}\n",
			wantErr: domain.ErrTaskAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFile(t, dir, domain.HCLConfigFileName, tt.content)

			_, err := newLoader(t, nil).Load(dir)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
