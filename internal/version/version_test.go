package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuild(t *testing.T, version, commit, built string, settings ...debug.BuildSetting) {
	t.Helper()

	oldVersion, oldCommit, oldTime, oldRead := Version, GitCommit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, readBuildInfo = oldVersion, oldCommit, oldTime, oldRead
	})

	Version, GitCommit, BuildTime = version, commit, built
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: settings}, true
	}
}

func TestGetShortVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"release with commit", "v1.2.0", "abcdef0123", "v1.2.0 (abcdef0)"},
		{"dev with commit", "dev", "abcdef0123", "dev-abcdef0"},
		{"release without commit", "v1.2.0", "unknown", "v1.2.0"},
		{"short commit", "v1.2.0", "abc", "v1.2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuild(t, tt.version, tt.commit, "unknown")
			assert.Equal(t, tt.want, GetShortVersion())
		})
	}
}

func TestBuildSettingsFallback(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown",
		debug.BuildSetting{Key: "vcs.revision", Value: "1234567890"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	)

	assert.Equal(t, "1234567890", GetGitCommit())
	assert.True(t, IsDirty())
	assert.False(t, IsRelease())
	assert.Equal(t, "dev-1234567", GetShortVersion())
}

func TestGetBuildInfo(t *testing.T) {
	withBuild(t, "v0.3.0", "feedface00", "2024-05-01T10:00:00Z")

	info := GetBuildInfo()
	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), info.BuildTime)
	assert.True(t, IsRelease())
	assert.Contains(t, GetDetailedVersion(), "Commit: feedface00")
	assert.Contains(t, GetDetailedVersion(), "Built: 2024-05-01T10:00:00Z")
}

func TestParseBuildTime(t *testing.T) {
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("yesterday").IsZero())
	assert.Equal(t, 2024, parseBuildTime("2024-01-02 03:04:05").Year())
}
