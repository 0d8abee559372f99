// Package notify is an in-process notification center whose notifications
// can be observed as wiretaps.
package notify

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/AnatoleLucet/wiretap"
)

// Notification is a named message posted to a Center.
type Notification struct {
	Name   string
	Object any
	Info   map[string]any
}

type observer struct {
	id     uuid.UUID
	name   string
	object any
	fn     func(Notification)
}

// Center dispatches posted notifications to the observers registered for
// their name. It is safe for concurrent use; observers run on the goroutine
// calling Post.
type Center struct {
	mu        sync.RWMutex
	observers []observer
}

func NewCenter() *Center {
	return &Center{}
}

var defaultCenter = NewCenter()

// Default returns the process-wide center.
func Default() *Center {
	return defaultCenter
}

// AddObserver registers fn for the notifications named name. A non-nil
// object restricts fn to the notifications posted with that object.
func (c *Center) AddObserver(name string, object any, fn func(Notification)) uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New()
	c.observers = append(c.observers, observer{id, name, object, fn})

	return id
}

func (c *Center) RemoveObserver(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, o := range c.observers {
		if o.id == id {
			c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
			return
		}
	}
}

// Observers returns the number of registered observers.
func (c *Center) Observers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.observers)
}

// Post delivers a notification to the matching observers, in registration order.
func (c *Center) Post(name string, object any, info map[string]any) {
	n := Notification{Name: name, Object: object, Info: info}

	c.mu.RLock()
	var matched []func(Notification)
	for _, o := range c.observers {
		if o.name == name && (o.object == nil || sameObject(o.object, object)) {
			matched = append(matched, o.fn)
		}
	}
	c.mu.RUnlock()

	for _, fn := range matched {
		fn(n)
	}
}

// Wiretap returns a wiretap emitting (object, info) for each notification
// named name. Tearing it down removes the observer.
func (c *Center) Wiretap(name string, object any) *wiretap.Wiretap {
	w := wiretap.New()

	id := c.AddObserver(name, object, func(n Notification) {
		w.Emit(n.Object, n.Info)
	})
	w.OnTeardown(func() { c.RemoveObserver(id) })

	return w
}

func sameObject(a, b any) bool {
	if b == nil {
		return false
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}

	return a == b
}
