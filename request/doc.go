// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the plain data types exchanged with the
simplehttp request engine: Spec (describes a request), Response (a
complete, fully-buffered response), and Execution (describes one
execution of a Spec).

Create a Spec to describe a request:

	s, err := request.NewSpec("POST", "https://example.com/submit",
		"a=1", "application/x-www-form-urlencoded", "X-Trace: abc")
	...
	resp, err := client.Execute(s)
	...

A Spec is plain data and may also be built as a struct literal. The
engine validates it before use.

Response headers are kept as "Name: Value" lines in wire order rather
than as a map, so that duplicate headers and header order survive
intact.

Execution is the state record of one request execution. It is the
input type for event handlers and retry policies, and the output type
of the engine's Do method. You will typically not allocate Execution
instances yourself, but will instead work with the ones handed out by
the engine.
*/
package request
