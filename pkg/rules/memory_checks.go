// Copyright 2024 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"context"
	"fmt"

	"github.com/webapp-tools/env-precheck/pkg/bytesize"
	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

const memoryStep = "memory"

func (a *audit) checkMemory(_ context.Context, reg *precheck.Registry) error {
	if a.source == nil {
		return errNoRuntime
	}
	minLimit := a.thresholds.MinMemoryLimit
	memoryLimit := a.directiveSize("memory_limit")
	postMaxSize := a.directiveSize("post_max_size")

	reg.CheckPhpConfig(a.source, "memory_limit",
		precheck.Predicate(func(raw string) bool {
			return bytesize.Parse(raw).AtLeast(minLimit)
		}),
		precheck.SeverityMandatory,
		precheck.WithTestMessage(fmt.Sprintf("memory_limit must be at least %s (%s configured)", minLimit, memoryLimit)),
		precheck.WithHelpHTML(fmt.Sprintf("Increase \"<strong>memory_limit</strong>\" to at least <strong>%s</strong> in php.ini<a href=\"#phpini\">*</a>.", minLimit)),
	)

	// An unbounded memory_limit fits any post size.
	reg.CheckPhpConfig(a.source, "post_max_size",
		precheck.Predicate(func(raw string) bool {
			return memoryLimit.IsUnbounded() || bytesize.Parse(raw).Less(memoryLimit)
		}),
		precheck.SeverityRecommendation,
		precheck.WithTestMessage("\"memory_limit\" should be greater than \"post_max_size\"."),
		precheck.WithHelpHTML("Set \"<strong>memory_limit</strong>\" to be greater than \"<strong>post_max_size</strong>\"."),
	)

	reg.CheckPhpConfig(a.source, "upload_max_filesize",
		precheck.Predicate(func(raw string) bool {
			return postMaxSize.IsUnbounded() || bytesize.Parse(raw).Less(postMaxSize)
		}),
		precheck.SeverityRecommendation,
		precheck.WithTestMessage("\"post_max_size\" should be greater than \"upload_max_filesize\"."),
		precheck.WithHelpHTML("Set \"<strong>post_max_size</strong>\" to be greater than \"<strong>upload_max_filesize</strong>\"."),
	)
	return nil
}

func (a *audit) directiveSize(key string) bytesize.Size {
	raw, _ := a.source.Directive(key)
	return bytesize.Parse(raw)
}
