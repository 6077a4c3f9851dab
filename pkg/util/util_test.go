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

package util_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dbxops/dbxctl/pkg/util"
)

var _ = Describe("FormatNotAvailable", func() {
	It("Should return N.A. for an empty string", func() {
		Expect(util.FormatNotAvailable("")).To(Equal("N.A."))
	})

	It("Should return the value otherwise", func() {
		Expect(util.FormatNotAvailable("https://adb-1.azuredatabricks.net")).To(Equal("https://adb-1.azuredatabricks.net"))
	})
})

var _ = Describe("GetSinceTime", func() {
	It("Should return N.A. for an unset timestamp", func() {
		Expect(util.GetSinceTime(0)).To(Equal("N.A."))
	})

	It("Should return a short age", func() {
		started := time.Now().Add(-30 * time.Second).UnixMilli()
		Expect(util.GetSinceTime(started)).To(Equal("30s"))
	})
})

var _ = Describe("FormatEpochMillis", func() {
	It("Should format in UTC", func() {
		Expect(util.FormatEpochMillis(1700000000000)).To(Equal("2023-11-14T22:13:20Z"))
	})

	It("Should return an empty string for an unset timestamp", func() {
		Expect(util.FormatEpochMillis(0)).To(BeEmpty())
	})
})

var _ = Describe("FormatDurationMillis", func() {
	It("Should format minutes and seconds", func() {
		Expect(util.FormatDurationMillis(150000)).To(Equal("2m30s"))
	})

	It("Should return N.A. for zero", func() {
		Expect(util.FormatDurationMillis(0)).To(Equal("N.A."))
	})
})

var _ = Describe("TrimWorkspaceURL", func() {
	It("Should strip every trailing slash", func() {
		Expect(util.TrimWorkspaceURL(" https://adb-1.azuredatabricks.net// ")).To(Equal("https://adb-1.azuredatabricks.net"))
	})

	It("Should leave a clean URL untouched", func() {
		Expect(util.TrimWorkspaceURL("https://adb-1.azuredatabricks.net")).To(Equal("https://adb-1.azuredatabricks.net"))
	})
})

var _ = Describe("CreateValidMetricNameLabel", func() {
	It("Should replace invalid characters", func() {
		Expect(util.CreateValidMetricNameLabel("dbx-ctl_", "api.request-count")).To(Equal("dbx_ctl_api_request_count"))
	})

	It("Should keep valid names", func() {
		Expect(util.CreateValidMetricNameLabel("dbxctl_", "run_wait_poll_count")).To(Equal("dbxctl_run_wait_poll_count"))
	})
})
