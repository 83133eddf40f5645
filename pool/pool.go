// ABOUTME: Simple worker pool for parallelizing batch tasks
// ABOUTME: Provides the submit-and-wait pattern behind trials mode

// Package pool runs independent tasks on a fixed set of goroutines.
package pool

import (
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
}

// NewWorkerPool creates a worker pool sized to available CPUs
// The bufferSize determines the task channel capacity
func NewWorkerPool(bufferSize int) *WorkerPool {
	return NewWorkerPoolSize(runtime.NumCPU(), bufferSize)
}

// NewWorkerPoolSize creates a worker pool with an explicit worker count.
// Values below 1 fall back to one worker.
func NewWorkerPoolSize(workers, bufferSize int) *WorkerPool {
	workers = max(workers, 1)
	bufferSize = max(bufferSize, 0)

	pool := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		pool.workerWg.Add(1)

		go func() {
			defer pool.workerWg.Done()

			for task := range pool.taskChan {
				task()
				pool.taskWg.Done()
			}
		}()
	}

	return pool
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool
// Blocks if the task channel is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the worker pool and waits for all workers to exit
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}
