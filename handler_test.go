// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package simplehttp

import (
	"fmt"
	"testing"

	"github.com/gogama/simplehttp/request"
	"github.com/stretchr/testify/assert"
)

func TestHandlerGroup(t *testing.T) {
	var evts []string
	var execs []*request.Execution
	h1 := &testHandler{seq: 1, evts: &evts, execs: &execs}
	h2 := &testHandler{seq: 2, evts: &evts, execs: &execs}
	g := &HandlerGroup{}
	t.Run("PushBack", func(t *testing.T) {
		assert.PanicsWithValue(t, "simplehttp: nil handler", func() { g.PushBack(BeforeExecute, nil) })
		assert.PanicsWithValue(t, "simplehttp: unknown event", func() { g.PushBack(Event(123), h1) })
		assert.PanicsWithValue(t, "simplehttp: unknown event", func() { g.PushBack(Event(-1), h1) })
		g.PushBack(BeforeExecute, h1)
		g.PushBack(BeforeExecute, h2)
		g.PushBack(AfterExecute, h1)
	})
	t.Run("run", func(t *testing.T) {
		e1 := &request.Execution{Attempt: 1}
		e2 := &request.Execution{Attempt: 2}
		assert.Empty(t, evts)
		assert.Empty(t, execs)
		g.run(BeforeSend, e1)
		assert.Empty(t, evts)
		assert.Empty(t, execs)
		g.run(BeforeExecute, e1)
		assert.Equal(t, []string{"1.BeforeExecute", "2.BeforeExecute"}, evts)
		assert.Equal(t, []*request.Execution{e1, e1}, execs)
		evts = evts[:0]
		execs = execs[:0]
		g.run(AfterExecute, e2)
		assert.Equal(t, []string{"1.AfterExecute"}, evts)
		assert.Equal(t, []*request.Execution{e2}, execs)
	})
	t.Run("empty group", func(t *testing.T) {
		assert.NotPanics(t, func() { (&HandlerGroup{}).run(AfterExecute, &request.Execution{}) })
	})
}

type testHandler struct {
	seq   int
	evts  *[]string
	execs *[]*request.Execution
}

func (h *testHandler) Handle(evt Event, e *request.Execution) {
	*h.evts = append(*h.evts, fmt.Sprintf("%d.%s", h.seq, evt))
	*h.execs = append(*h.execs, e)
}

func TestHandlerFunc(t *testing.T) {
	var _evt Event
	var _e *request.Execution
	var f = func(evt Event, e *request.Execution) {
		_evt = evt
		_e = e
	}
	h := HandlerFunc(f)
	e := &request.Execution{}
	h.Handle(BeforeReadBody, e)

	assert.Equal(t, BeforeReadBody, _evt)
	assert.Same(t, e, _e)
}
