// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport performs the network exchange for a single HTTP
request as a sequence of independently failing stages.

The stages run against a platform, described by the Session,
Connection, and Handle interfaces. The default platform, NetSession,
speaks HTTP/1.1 directly over a TCP (and optionally TLS) connection.
Tests and embedders may supply their own platform.

A Client owns the handles acquired for one request and wraps every
platform failure in a *failure.Error identifying the stage:

	c := transport.NewClient(transport.DefaultSession())
	defer c.Close()
	if err := c.Connect(ep); err != nil {
		return err
	}
	if err := c.Open("GET", ep.Path, ep.Secure); err != nil {
		return err
	}
	...

Close releases the request handle and then the connection handle, and
is safe to call after any failure.
*/
package transport
