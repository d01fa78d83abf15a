package api

import (
	"github.com/JaimeStill/mediflow/internal/redflags"
	"github.com/JaimeStill/mediflow/internal/triage"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Triage triage.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Triage: triage.New(redflags.New(), runtime.Gateway, runtime.Logger),
	}
}
