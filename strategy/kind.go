// Package strategy picks the filtering engine for a catalog from its size
// and exposes the caller facing Catalog.
//
// A Selector counts the catalog through DataSource.Count. A count above the
// threshold (100 by default) selects the remote engine; anything else
// selects the in-memory engine and loads its working set. Every call is
// then forwarded to the active engine until the next EvaluateAndSelect.
//
// Switching engines never replays the last query; callers re-issue it.
package strategy

import "time"

// Kind identifies a filtering engine.
type Kind string

const (
	// None is the Kind of a Selector that has not selected yet.
	None Kind = ""

	// InMemory filters a fully loaded working set.
	InMemory Kind = "inmemory"

	// Remote delegates every query to the data source.
	Remote Kind = "remote"
)

func (k Kind) String() string {
	if k == None {
		return "none"
	}
	return string(k)
}

// Recorder observes selector and catalog activity. metrics.Recorder is the
// Prometheus implementation.
type Recorder interface {
	// Selected is called after every successful selection.
	Selected(kind Kind, count int)

	// Queried is called after every forwarded ApplyAndPaginate.
	Queried(kind Kind, elapsed time.Duration, err error)

	// Superseded is called when a stale result is discarded.
	Superseded()
}

type nopRecorder struct{}

func (nopRecorder) Selected(Kind, int)                 {}
func (nopRecorder) Queried(Kind, time.Duration, error) {}
func (nopRecorder) Superseded()                        {}
