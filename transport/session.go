// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import "sync"

var (
	defaultOnce    sync.Once
	defaultSession *NetSession
)

// DefaultSession returns the process-wide default Session, a
// NetSession which selects proxies from the environment. It is created
// on first use and never modified afterwards.
func DefaultSession() Session {
	defaultOnce.Do(func() {
		defaultSession = NewNetSession()
	})
	return defaultSession
}
