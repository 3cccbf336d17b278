package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/core/domain"
)

const (
	h1 = "1111111111111111111111111111111111111111111111111111111111111111"
	h2 = "2222222222222222222222222222222222222222222222222222222222222222"
	h3 = "3333333333333333333333333333333333333333333333333333333333333333"
)

func TestBuildCache_HasChanges(t *testing.T) {
	stored := map[string]string{"Main.java": h1, "util/Util.java": h2}

	tests := []struct {
		name    string
		current map[string]string
		want    bool
	}{
		{name: "unchanged", current: map[string]string{"Main.java": h1, "util/Util.java": h2}, want: false},
		{name: "modified", current: map[string]string{"Main.java": h3, "util/Util.java": h2}, want: true},
		{name: "deleted", current: map[string]string{"Main.java": h1}, want: true},
		{name: "added", current: map[string]string{"Main.java": h1, "util/Util.java": h2, "App.java": h3}, want: true},
		{name: "renamed", current: map[string]string{"Main.java": h1, "util/Helper.java": h2}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.NewBuildCache()
			c.Replace(stored, time.Unix(100, 0))
			assert.Equal(t, tt.want, c.HasChanges(tt.current))
		})
	}
}

func TestBuildCache_FreshCacheHasChanges(t *testing.T) {
	c := domain.NewBuildCache()
	assert.Equal(t, domain.BuildCacheVersion, c.Version)
	assert.True(t, c.HasChanges(map[string]string{"Main.java": h1}))
	assert.False(t, c.HasChanges(map[string]string{}))
}

func TestBuildCache_ChangedFiles(t *testing.T) {
	c := domain.NewBuildCache()
	c.Replace(map[string]string{"Main.java": h1, "Gone.java": h3}, time.Unix(100, 0))

	changed := c.ChangedFiles(map[string]string{"Main.java": h1, "Util.java": h2})
	assert.Equal(t, []string{"Util.java"}, changed)

	changed = c.ChangedFiles(map[string]string{"Main.java": h2, "B.java": h2, "A.java": h1})
	assert.Equal(t, []string{"A.java", "B.java", "Main.java"}, changed)
}

func TestBuildCache_Replace(t *testing.T) {
	current := map[string]string{"Main.java": h1}
	c := domain.NewBuildCache()
	c.Replace(current, time.Unix(1700000000, 0))

	current["Main.java"] = h2
	assert.Equal(t, h1, c.FileHashes["Main.java"])
	assert.Equal(t, int64(1700000000), c.LastBuildTimestamp)
	assert.False(t, c.HasChanges(map[string]string{"Main.java": h1}))

	c.Replace(nil, time.Unix(1700000001, 0))
	assert.NotNil(t, c.FileHashes)
	assert.Empty(t, c.FileHashes)
}

func TestMasterHash(t *testing.T) {
	a := map[string]string{}
	a["b.py"] = h2
	a["a.py"] = h1
	a["c/d.py"] = h3

	b := map[string]string{}
	b["c/d.py"] = h3
	b["a.py"] = h1
	b["b.py"] = h2

	assert.Equal(t, domain.MasterHash(a), domain.MasterHash(b))
	assert.Len(t, domain.MasterHash(a), 64)

	changed := map[string]string{"a.py": h1, "b.py": h2, "c/d.py": h1}
	assert.NotEqual(t, domain.MasterHash(a), domain.MasterHash(changed))

	renamed := map[string]string{"a.py": h1, "b.py": h2, "c/e.py": h3}
	assert.NotEqual(t, domain.MasterHash(a), domain.MasterHash(renamed))

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		domain.MasterHash(nil),
	)
}

func TestBuildCache_MasterHashUsesStoredState(t *testing.T) {
	c := domain.NewBuildCache()
	c.Replace(map[string]string{"a.py": h1}, time.Unix(1, 0))
	assert.Equal(t, domain.MasterHash(map[string]string{"a.py": h1}), c.MasterHash())
}

func TestBuildCache_JSONLayout(t *testing.T) {
	c := domain.NewBuildCache()
	c.Replace(map[string]string{"Main.java": h1}, time.Unix(42, 0))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"file_hashes":{"Main.java":"`+h1+`"},"last_build_timestamp":42}`, string(data))

	data, err = json.Marshal(domain.NewBuildCache())
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"file_hashes":{}}`, string(data))
}
