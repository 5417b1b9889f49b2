// Copyright 2021 The simplehttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package failure defines the error taxonomy of the simplehttp request
// engine.
//
// Every error produced while executing a request is a *Error whose Kind
// identifies the stage that failed. Kinds may be matched with
// errors.Is, and KindOf and CodeOf extract the kind and the platform
// error code from an arbitrary error chain.
package failure
