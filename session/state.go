package session

import (
	"voicetracker/expense"
)

// State is one of Idle, Recording, Processing, Success or Failed.
type State interface {
	Name() string
	isState()
}

// Idle waits for a recording. Notice carries the reason the last start
// attempt failed, if any.
type Idle struct {
	Notice string
}

type Recording struct {
	Elapsed int
}

type Processing struct{}

type Success struct {
	Report expense.Report
}

type Failed struct {
	Message string
}

func (Idle) Name() string       { return "idle" }
func (Recording) Name() string  { return "recording" }
func (Processing) Name() string { return "processing" }
func (Success) Name() string    { return "success" }
func (Failed) Name() string     { return "failed" }

func (Idle) isState()       {}
func (Recording) isState()  {}
func (Processing) isState() {}
func (Success) isState()    {}
func (Failed) isState()     {}
