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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dbxops/dbxctl/api/databricks"
	"github.com/dbxops/dbxctl/pkg/util"
)

var _ = Describe("LoadFromFile", func() {
	It("Should load a YAML cluster spec", func() {
		spec := &databricks.ClusterSpec{}
		Expect(util.LoadFromFile("testdata/cluster.yaml", spec)).To(Succeed())

		Expect(spec.ClusterName).To(Equal("ci-cluster"))
		Expect(spec.SparkVersion).To(Equal("13.3.x-scala2.12"))
		Expect(spec.AutoScale).To(Equal(&databricks.AutoScale{MinWorkers: 1, MaxWorkers: 3}))
		Expect(spec.CustomTags).To(HaveKeyWithValue("team", "data"))
	})

	It("Should load a JSON instance pool", func() {
		pool := &databricks.InstancePool{}
		Expect(util.LoadFromFile("testdata/pool.json", pool)).To(Succeed())

		Expect(pool.InstancePoolName).To(Equal("ci-pool"))
		Expect(pool.AzureAttributes.Availability).To(Equal(databricks.AzureAvailabilitySpot))
		Expect(pool.PreloadedSparkVersions).To(ConsistOf("13.3.x-scala2.12"))
	})

	It("Should reject unknown fields", func() {
		pool := &databricks.InstancePool{}
		Expect(util.LoadFromFile("testdata/cluster.yaml", pool)).NotTo(Succeed())
	})

	It("Should fail on a missing file", func() {
		Expect(util.LoadFromFile("testdata/missing.yaml", &databricks.ClusterSpec{})).NotTo(Succeed())
	})
})

var _ = Describe("ParseStringMap", func() {
	It("Should convert scalars to strings", func() {
		values, err := util.ParseStringMap(`{"sourcePath": "/mnt/raw", "limit": 10, "full": true, "empty": null, "nested": {"a": 1}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal(map[string]string{
			"sourcePath": "/mnt/raw",
			"limit":      "10",
			"full":       "true",
			"empty":      "",
			"nested":     `{"a":1}`,
		}))
	})

	It("Should return an empty map for blank input", func() {
		values, err := util.ParseStringMap("  ")
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(BeEmpty())
	})

	It("Should reject a JSON array", func() {
		_, err := util.ParseStringMap(`["a"]`)
		Expect(err).To(HaveOccurred())
	})
})
