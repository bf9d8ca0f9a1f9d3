package cmd

import "github.com/queuectl/queuectl"

var errInvalidStateFilter = queuectl.ErrInvalidInput
