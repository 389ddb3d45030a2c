package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfoWithValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		version     string
		commit      string
		buildDate   string
		wantVersion string
		wantCommit  string
	}{
		{
			name:        "release build keeps ldflags values",
			version:     "1.2.0",
			commit:      "abcdef1234567890",
			buildDate:   "2026-01-15T10:30:00Z",
			wantVersion: "1.2.0",
			wantCommit:  "abcdef1234567890",
		},
		{
			name:        "dev build manufactures version from commit",
			version:     "dev",
			commit:      "abcdef1234567890",
			buildDate:   unknownStr,
			wantVersion: "build-abcdef12",
			wantCommit:  "abcdef1234567890",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := getVersionInfoWithValues(tt.version, tt.commit, tt.buildDate)
			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.NotEmpty(t, info.GoVersion)
			assert.Contains(t, info.Platform, "/")
		})
	}
}

func TestGetVersionInfoFormatsBuildDate(t *testing.T) {
	t.Parallel()

	info := getVersionInfoWithValues("2.0.0", "deadbeef", "2026-03-01T08:00:00Z")
	assert.Equal(t, "2026-03-01 08:00:00 UTC", info.BuildDate)
}
