// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from request execution as
// transient or non-transient. This is handy for writing retry policies,
// and for other purposes such as bucketing error metrics.
package transient
