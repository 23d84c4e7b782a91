package service

import "sync"

// deferredNotifier holds back out-of-band messages (background task
// summaries, late tool results) while the model is mid-response, so they
// never interleave with a stream the client is rendering. Queued messages
// flush in arrival order the moment the response finishes.
type deferredNotifier struct {
	mu         sync.Mutex
	responding bool
	queue      []interface{}
	deliver    func(v interface{})
}

func newDeferredNotifier(deliver func(v interface{})) *deferredNotifier {
	return &deferredNotifier{deliver: deliver}
}

func (n *deferredNotifier) Notify(v interface{}) {
	n.mu.Lock()
	if n.responding {
		n.queue = append(n.queue, v)
		n.mu.Unlock()
		return
	}
	n.mu.Unlock()
	n.deliver(v)
}

func (n *deferredNotifier) SetResponding(responding bool) {
	n.mu.Lock()
	n.responding = responding
	if responding {
		n.mu.Unlock()
		return
	}
	drained := n.queue
	n.queue = nil
	n.mu.Unlock()

	for _, v := range drained {
		n.deliver(v)
	}
}

func (n *deferredNotifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}
