package worker

// Job is a unit of work executed by the pool.
type Job[T any] func() T

// Pool runs jobs on a fixed number of goroutines. Each submission gets its
// own reply channel, so results cannot be picked up by the wrong caller no
// matter how requests interleave.
type Pool[T any] struct {
	jobs chan job[T]
}

type job[T any] struct {
	fn    Job[T]
	reply chan T
}

func NewPool[T any](workerCount, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs: make(chan job[T], bufferSize),
	}
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool[T]) worker() {
	for j := range p.jobs {
		j.reply <- j.fn()
	}
}

// Submit enqueues fn and returns the channel its result will arrive on.
// The channel is buffered, so an abandoned result does not block a worker.
func (p *Pool[T]) Submit(fn Job[T]) <-chan T {
	reply := make(chan T, 1)
	p.jobs <- job[T]{fn: fn, reply: reply}
	return reply
}

// Close stops the workers once queued jobs have drained. Submitting after
// Close panics.
func (p *Pool[T]) Close() {
	close(p.jobs)
}
