package system

// Stage names a node in the tick graph. Every system owns exactly one stage.
type Stage string

// System is the interface every scheduled system implements. C is the
// tick-scoped context handed to every stage invocation.
type System[C any] interface {
	Stage() Stage
	// After lists the stages that must complete before this one runs.
	After() []Stage
	Update(ctx *C) error
}

// Maintainer applies deferred entity mutations once all stages of a tick ran.
type Maintainer interface {
	Maintain() error
}
