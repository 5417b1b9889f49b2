// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package simplehttp

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality, such as logging or metrics.
type Event int

const (
	// BeforeExecute identifies the event that occurs before the
	// request execution starts.
	//
	// When Client fires BeforeExecute, the execution is non-nil but
	// the only field that has been set is the spec. Handlers may
	// modify the spec, thus changing the request that will be sent.
	BeforeExecute Event = iota
	// BeforeSend identifies the event that occurs after the connection
	// has been established and the request headers attached, but
	// before the request is sent.
	//
	// When Client fires BeforeSend, the execution's endpoint and
	// headers fields are set.
	BeforeSend
	// BeforeReadBody identifies the event that occurs after the
	// response status line and headers have been received but before
	// the response body is read.
	//
	// When Client fires BeforeReadBody, the execution's StatusCode
	// method returns the response status code.
	//
	// Note that BeforeReadBody never fires if the execution failed
	// before the status line and headers were known, but always fires
	// otherwise, regardless of status code.
	BeforeReadBody
	// AfterExecute identifies the event that occurs after the
	// execution ends, regardless of whether it ended successfully.
	//
	// When Client fires AfterExecute, exactly one of the execution's
	// response and error fields is non-nil, and the end time is set.
	AfterExecute
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecute",
	"BeforeSend",
	"BeforeReadBody",
	"AfterExecute",
}

// Events returns a slice containing all events which can occur in a
// request execution by Client, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecute,
		BeforeSend,
		BeforeReadBody,
		AfterExecute,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
