package pool

import (
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrSearchExhausted is returned by Search when the attempt budget runs out
// before enough successful candidates were found.
var ErrSearchExhausted = errors.New("pool: search exhausted its attempt budget")

// searchAlone runs f, which may return nil, until count elements are found,
// or maxTries calls have been made.
func searchAlone(f func() interface{}, count, maxTries int) ([]interface{}, error) {
	results := make([]interface{}, count)
	tries := 0
	for i := 0; i < len(results); i++ {
		for results[i] == nil {
			if tries >= maxTries {
				return nil, ErrSearchExhausted
			}
			tries++
			results[i] = f()
		}
	}
	return results, nil
}

// parallelizeAlone evaluates f on 0…count-1 in order.
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is a unit of work for an idle worker: evaluate f at i once,
// or, for a search, call f repeatedly until enough non nil results exist.
type command struct {
	search bool
	// results still missing
	ctr *int64
	// calls to f left, shared by every worker of a search
	tries *int64
	i     int
	f     func(int) interface{}
	// shared output slice
	results []interface{}
	done    *sync.WaitGroup
}

// workerSearch claims a slot in c.results for each non nil value of f,
// and stops once every slot is claimed or the shared budget is spent.
func workerSearch(c command) {
	for atomic.LoadInt64(c.ctr) > 0 {
		if atomic.AddInt64(c.tries, -1) < 0 {
			return
		}
		res := c.f(0)
		if res == nil {
			continue
		}
		i := atomic.AddInt64(c.ctr, -1)
		if i < 0 {
			return
		}
		c.results[i] = res
	}
}

// worker executes commands until the channel is closed.
func worker(commands <-chan command) {
	for c := range commands {
		if c.search {
			workerSearch(c)
		} else {
			c.results[c.i] = c.f(c.i)
		}
		c.done.Done()
	}
}

// Pool is a fixed set of long lived goroutines sharing one command channel.
//
// A nil *Pool is valid: every method then runs on the calling goroutine.
type Pool struct {
	// idle workers pick the next command, whoever is free first
	commands    chan command
	workerCount int
}

// NewPool starts count workers, or one per CPU when count <= 0.
// Call TearDown to stop them.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}

	p := &Pool{
		commands:    make(chan command),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.commands)
	}
	return p
}

// TearDown stops the workers. The pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.commands)
}

// Search calls f until it has returned count non nil values, and returns them.
//
// f tries one candidate and returns nil on failure. At most maxTries calls are
// made across all workers, after which ErrSearchExhausted is returned.
func (p *Pool) Search(count, maxTries int, f func() interface{}) ([]interface{}, error) {
	if p == nil {
		return searchAlone(f, count, maxTries)
	}

	results := make([]interface{}, count)
	ctr := int64(count)
	tries := int64(maxTries)
	var done sync.WaitGroup
	done.Add(p.workerCount)
	cmd := command{
		search:  true,
		ctr:     &ctr,
		tries:   &tries,
		f:       func(int) interface{} { return f() },
		results: results,
		done:    &done,
	}
	for i := 0; i < p.workerCount; i++ {
		p.commands <- cmd
	}
	done.Wait()

	if atomic.LoadInt64(&ctr) > 0 {
		return nil, ErrSearchExhausted
	}
	return results, nil
}

// Parallelize returns [f(0), …, f(count-1)], evaluated concurrently.
// It must not be called from inside f.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)
	var done sync.WaitGroup
	done.Add(count)
	for i := 0; i < count; i++ {
		p.commands <- command{
			i:       i,
			f:       f,
			results: results,
			done:    &done,
		}
	}
	done.Wait()
	return results
}

// LockedReader serializes reads from an underlying io.Reader,
// so that workers can share a source of randomness.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader wraps r.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read holds the lock for the duration of the underlying Read.
// Concurrent callers get disjoint parts of the stream, in no particular order.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
