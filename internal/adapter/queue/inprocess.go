package queue

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrQueueClosed = errors.New("queue closed")

// InProcessQueue delivers messages to handlers registered in the same
// process. Each message is handled on its own goroutine; Close waits for
// in-flight handlers.
type InProcessQueue struct {
	mu       sync.RWMutex
	handlers map[string][]func([]byte) error
	wg       sync.WaitGroup
	closed   bool
	log      *zap.Logger
}

func NewInProcessQueue(log *zap.Logger) MessageQueue {
	log.Info("Using in-process message queue")
	return &InProcessQueue{
		handlers: make(map[string][]func([]byte) error),
		log:      log,
	}
}

func (q *InProcessQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	payload := append([]byte(nil), data...)
	for _, h := range q.handlers[subject] {
		q.wg.Add(1)
		go func(h func([]byte) error) {
			defer q.wg.Done()
			if err := h(payload); err != nil {
				q.log.Error("Error processing message", zap.String("subject", subject), zap.Error(err))
			}
		}(h)
	}
	return nil
}

func (q *InProcessQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.handlers[subject] = append(q.handlers[subject], handler)
	return nil
}

func (q *InProcessQueue) Close() error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

func (q *InProcessQueue) Ping() error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	return nil
}
