// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import "github.com/gogama/simplehttp/internal/cli"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, buildTime)
	cli.Execute()
}
