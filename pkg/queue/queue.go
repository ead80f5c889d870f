package queue

// Queue is a basic FIFO queue. Frontends use it to hand raw input
// intents from their event goroutine to the update loop so that engine
// commands stay on one timeline.
type Queue interface {
	Enqueue(item interface{})
	Dequeue() interface{}
	Size() int
	ReadAllMessages() []interface{}
	ClearQueue()
}
