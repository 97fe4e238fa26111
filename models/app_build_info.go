// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const notAvailable = "N/A"

// AppBuildInfo is stamped into both binaries with -ldflags and printed by
// `zkvault version` and at server start.
type AppBuildInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// NewAppBuildInfo replaces empty values with "N/A".
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	orNA := func(s string) string {
		if s == "" {
			return notAvailable
		}
		return s
	}
	return AppBuildInfo{
		Version: orNA(version),
		Date:    orNA(date),
		Commit:  orNA(commit),
	}
}

func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", a.Version, a.Date, a.Commit)
}
