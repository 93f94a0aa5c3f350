package core

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/smarty/assetmirror/contracts"
)

// NopProgressSink discards every call. It is the default for library
// callers and the standard double in tests.
type NopProgressSink struct{}

func (NopProgressSink) BeginSet(int, string)                   {}
func (NopProgressSink) Tick(string, int64, contracts.JobStatus) {}
func (NopProgressSink) EndSet()                                {}

// singletonThreshold is the set size below which ConsoleProgressSink
// elects not to render a line at all; a bar for a single manifest fetch
// reads as noise more than information.
const singletonThreshold = 2

// ConsoleProgressSink renders one line per completed/skipped/failed job
// plus a running total, serialized through an internal mutex so any
// worker goroutine may call it directly.
type ConsoleProgressSink struct {
	out io.Writer

	mutex     sync.Mutex
	label     string
	total     int
	done      int
	totalSize uint64
}

func NewConsoleProgressSink(out io.Writer) *ConsoleProgressSink {
	return &ConsoleProgressSink{out: out}
}

func (this *ConsoleProgressSink) BeginSet(totalJobs int, label string) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.label = label
	this.total = totalJobs
	this.done = 0
	this.totalSize = 0

	if totalJobs < singletonThreshold {
		return
	}
	fmt.Fprintf(this.out, "%s: 0/%d\n", label, totalJobs)
}

func (this *ConsoleProgressSink) Tick(name string, bytes int64, status contracts.JobStatus) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.done++
	if bytes > 0 {
		this.totalSize += uint64(bytes)
	}

	if this.total < singletonThreshold {
		return
	}
	fmt.Fprintf(this.out, "%s: %s %s (%d/%d, %s)\n",
		this.label, status, name, this.done, this.total, humanize.Bytes(this.totalSize))
}

func (this *ConsoleProgressSink) EndSet() {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if this.total < singletonThreshold {
		return
	}
	fmt.Fprintf(this.out, "%s: done (%d/%d, %s)\n", this.label, this.done, this.total, humanize.Bytes(this.totalSize))
}
