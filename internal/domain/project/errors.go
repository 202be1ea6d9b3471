package project

import "errors"

// ErrProjectNotFound indicates no project has the requested resid.
var ErrProjectNotFound = errors.New("project not found")
