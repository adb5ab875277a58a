package thought

// Message names the property an Observable changed.
type Message string

const (
	MessageModified Message = "modified"
	MessageXOffset  Message = "xOffset"
	MessageYOffset  Message = "yOffset"
)

// Observer receives change messages.
type Observer func(Message)

// Subscription identifies a registered Observer.
type Subscription int

type observerEntry struct {
	id Subscription
	fn Observer
}

// Observable is a small publish/subscribe list. The zero value is ready to use.
type Observable struct {
	next      Subscription
	observers []observerEntry
}

// Subscribe registers fn and returns a handle for Unsubscribe.
func (o *Observable) Subscribe(fn Observer) Subscription {
	o.next++
	o.observers = append(o.observers, observerEntry{id: o.next, fn: fn})
	return o.next
}

// Unsubscribe removes the observer registered under id. Unknown ids are ignored.
func (o *Observable) Unsubscribe(id Subscription) {
	for i, e := range o.observers {
		if e.id == id {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

// Notify calls every observer with msg in subscription order. Observers
// may unsubscribe while being notified.
func (o *Observable) Notify(msg Message) {
	snapshot := make([]observerEntry, len(o.observers))
	copy(snapshot, o.observers)
	for _, e := range snapshot {
		e.fn(msg)
	}
}

// Observers returns the number of registered observers.
func (o *Observable) Observers() int {
	return len(o.observers)
}
