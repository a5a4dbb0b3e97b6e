package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/nimasrn/trade-ledger/pkg/logger"
)

var ErrWorkersStopped = errors.New("workers terminated")

type WorkerHandler = func(ctx context.Context, workerIndex int, job interface{})

type WorkerManager struct {
	bufferSize     int
	jobChannel     chan interface{}
	numberOfWorker int
	stop           chan struct{}
	stopOnce       sync.Once
	do             WorkerHandler
	waiter         *sync.WaitGroup
}

// NewWorkerManager
// is a job manager based on go routines. Define the number of internal
// workers, and start publishing jobs using Enqueue. Jobs are distributed among
// the pool until the context given to Start is cancelled or Exit is called.
// The job channel is never closed here because it may be shared with the caller.
func NewWorkerManager(bufferSize, numberOfWorkers int, jobChannel chan interface{}) *WorkerManager {
	if jobChannel == nil {
		jobChannel = make(chan interface{}, bufferSize)
	}
	if numberOfWorkers <= 0 {
		numberOfWorkers = 1
	}

	return &WorkerManager{
		bufferSize:     bufferSize,
		numberOfWorker: numberOfWorkers,
		jobChannel:     jobChannel,
		stop:           make(chan struct{}),
		waiter:         &sync.WaitGroup{},
	}
}

func (w *WorkerManager) GetUnreadCount() int64 {
	if w.jobChannel == nil {
		return 0
	}
	return int64(len(w.jobChannel))
}

func (w *WorkerManager) SetWorker(worker WorkerHandler) {
	w.do = worker
}

// Enqueue
// Publishes a job onto the channel, blocking while the buffer is full.
func (w *WorkerManager) Enqueue(val interface{}) {
	w.jobChannel <- val
}

// TryEnqueue publishes a job only if the buffer has room.
func (w *WorkerManager) TryEnqueue(val interface{}) bool {
	select {
	case w.jobChannel <- val:
		return true
	default:
		return false
	}
}

// Start
// starts off the workers as many as defined by w.numberOfWorker and blocks
// until ctx is done or Exit is called.
func (w *WorkerManager) Start(ctx context.Context) error {
	if w.do == nil {
		return errors.New("worker handler is not set")
	}
	w.waiter.Add(w.numberOfWorker)
	for i := 0; i < w.numberOfWorker; i++ {
		go func(index int) {
			defer w.waiter.Done()
			for {
				select {
				case job := <-w.jobChannel:
					w.do(ctx, index, job)
				case <-ctx.Done():
					return
				case <-w.stop:
					return
				}
			}
		}(i)
	}
	w.waiter.Wait()

	return ErrWorkersStopped
}

// Exit
// stops every worker after its current job.
func (w *WorkerManager) Exit() {
	logger.Info("Exit() is called and worker manager is going to be shutdown")
	w.stopOnce.Do(func() { close(w.stop) })
}
