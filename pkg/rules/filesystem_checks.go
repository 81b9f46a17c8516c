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

	"github.com/webapp-tools/env-precheck/pkg/precheck"
)

const (
	vendorStep       = "vendor"
	writableDirsStep = "writable-dirs"
)

func (a *audit) checkVendor(_ context.Context, reg *precheck.Registry) error {
	reg.Require(
		a.vendor.exists,
		"Vendor libraries must be installed",
		fmt.Sprintf("Vendor libraries are missing in <strong>%s/</strong>. Install composer following instructions from "+
			"<a href=\"https://getcomposer.org/\">https://getcomposer.org/</a>. Then run \"<strong>composer install</strong>\" to install them.", a.vendor.rel),
	)
	return nil
}

// checkWritableDirs only reports on directories that exist.
func (a *audit) checkWritableDirs(_ context.Context, reg *precheck.Registry) error {
	for _, dir := range []dirState{a.cache, a.log} {
		if !dir.exists {
			a.logger.Debug("skipping absent directory", "dir", dir.rel)
			continue
		}
		reg.Require(
			dir.writable,
			fmt.Sprintf("%s/ directory must be writable", dir.rel),
			fmt.Sprintf("Change the permissions of \"<strong>%s/</strong>\" directory so that the web server can write into it.", dir.rel),
		)
	}
	return nil
}
