/*
Copyright 2024 The Kubeflow authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/duration"
)

const (
	// TimeLayout is used to print absolute timestamps.
	TimeLayout = "2006-01-02T15:04:05Z"

	notAvailable = "N.A."
)

// FormatNotAvailable returns "N.A." for empty values.
func FormatNotAvailable(info string) string {
	if info == "" {
		return notAvailable
	}
	return info
}

// GetSinceTime returns the age of an epoch-millisecond timestamp in short
// human readable form, or "N.A." when the timestamp is unset.
func GetSinceTime(epochMillis int64) string {
	if epochMillis <= 0 {
		return notAvailable
	}
	return duration.ShortHumanDuration(time.Since(time.UnixMilli(epochMillis)))
}

// FormatEpochMillis formats an epoch-millisecond timestamp in UTC using TimeLayout.
func FormatEpochMillis(epochMillis int64) string {
	if epochMillis <= 0 {
		return ""
	}
	return time.UnixMilli(epochMillis).UTC().Format(TimeLayout)
}

// FormatDurationMillis formats a millisecond duration in human readable form.
func FormatDurationMillis(millis int64) string {
	if millis <= 0 {
		return notAvailable
	}
	return duration.HumanDuration(time.Duration(millis) * time.Millisecond)
}

// TrimWorkspaceURL removes surrounding whitespace and every trailing slash.
func TrimWorkspaceURL(workspaceURL string) string {
	return strings.TrimRight(strings.TrimSpace(workspaceURL), "/")
}
