package convert

// Future is a completion handle for a conversion. The pipeline itself is
// synchronous; Start runs it to completion and the handle merely reports
// the outcome, so Wait never blocks.
type Future struct {
	result *Result
	err    error
}

// Wait returns the run's terminal error, nil on success.
func (f *Future) Wait() error {
	return f.err
}

// Result returns the run summary and terminal error.
func (f *Future) Result() (*Result, error) {
	return f.result, f.err
}

// Start executes the pipeline and returns a resolved completion handle.
func (p *Pipeline) Start() *Future {
	result, err := p.Run()

	return &Future{result: result, err: err}
}

// RunWithCallback executes the pipeline and invokes done with the run's
// terminal error, nil on success.
func (p *Pipeline) RunWithCallback(done func(error)) {
	_, err := p.Run()

	done(err)
}
