// Copyright 2026 The Hydra Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestInfoUsesInjectedValues(t *testing.T) {
	saved := []string{GitCommit, GitDirty, BuildTime, Version}
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime, Version = saved[0], saved[1], saved[2], saved[3]
	})

	GitCommit, GitDirty, BuildTime, Version = "abc1234", "true", "2026-05-03T08:00:00Z", "1.2.0"

	if got, want := Info(), "1.2.0 (abc1234-dirty, 2026-05-03T08:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if Short() != "1.2.0" {
		t.Errorf("Short() = %q", Short())
	}

	full := Full()
	if !strings.HasPrefix(full, "1.2.0 (abc1234-dirty") || !strings.Contains(full, runtime.Version()) {
		t.Errorf("Full() = %q", full)
	}

	info := Get()
	if !info.Dirty || info.Commit != "abc1234" || info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Get() = %+v", info)
	}
}

func TestFromBuildSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "GOOS", Value: "linux"},
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
	}
	commit, dirty := fromBuildSettings(settings, "unknown", false)
	if commit != "0123456" || !dirty {
		t.Errorf("fromBuildSettings = %q, %v; want 0123456, true", commit, dirty)
	}

	commit, dirty = fromBuildSettings(nil, "unknown", false)
	if commit != "unknown" || dirty {
		t.Errorf("fromBuildSettings(nil) = %q, %v", commit, dirty)
	}
}
