// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package simplehttp provides a synchronous HTTP client which sends one
request and returns the complete response (status code, status text,
header lines, and body) as plain data.

Create a Client to begin making requests.

	client := &simplehttp.Client{}
	resp, err := client.Get("https://www.example.com")
	...
	resp, err := client.Post("https://www.example.com/upload",
		`{"id":123}`, "application/json", "X-Trace: abc")
	...
	resp, err := client.Request("PATCH", "http://example.com/items/1",
		"name=widget", "")

Every failure is a *failure.Error whose Kind names the stage that
failed:

	if errors.Is(err, failure.ConnectError) {
		...
	}

For control over how the client connects to servers, set a custom
platform session. For example, a transport.NetSession with timeouts:

	client := &simplehttp.Client{
		Session: &transport.NetSession{
			DialTimeout: 5 * time.Second,
			ReadTimeout: 30 * time.Second,
		},
	}

The client never retries. Use package retry to retry transient
failures:

	policy := retry.NewPolicy(retry.DefaultDecider, retry.DefaultWaiter)
	e, err := retry.Do(client, spec, policy)

To hook into the fine-grained details of the client's request execution
logic, install a handler into the appropriate handler chain:

	handlers := &simplehttp.HandlerGroup{}
	handlers.PushBack(simplehttp.BeforeSend, simplehttp.HandlerFunc(
		func(_ simplehttp.Event, e *request.Execution) {
			log.Printf("Sending %s to %s", e.Spec.Verb, e.Endpoint)
		})
	)
	client := &simplehttp.Client{
		Handlers: handlers,
	}

Packages logging and metrics provide ready-made handlers.

Package simplehttp provides basic interfaces for each method of the
client (Doer, Executer, Getter, Header, Deleter, Poster, Putter and
Requester); a combined interface that composes all the basic methods
(Executor); and utility functions for working with a Doer (Inflate,
Execute, Get, Head, Delete, Post, Put and Request).
*/
package simplehttp
