// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import "github.com/bureau-foundation/paramcron/lib/params"

// Cause records that work was started by a matching entry, and with
// which parameters.
type Cause struct {
	parameters params.Parameters
}

// NewCause returns the cause for a run triggered with parameters.
func NewCause(parameters params.Parameters) Cause {
	return Cause{parameters: parameters}
}

// Parameters returns the parameters the run was started with.
func (c Cause) Parameters() params.Parameters { return c.parameters }

// ShortDescription renders the one-line cause shown in run history.
func (c Cause) ShortDescription(formatter Formatter) string {
	return formatter.Format(MessageCauseDescription, c.parameters.String())
}
