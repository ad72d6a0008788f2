package potion

import "slices"

// CallbackList is a named list of callbacks run together, such as "viewport
// changed". Subscribers keep the returned Subscription and release it with
// Unsubscribe when they are disposed.
type CallbackList struct {
	name string
	subs []*Subscription
}

// Subscription is one registered callback.
type Subscription struct {
	list *CallbackList
	fn   func()
}

func NewCallbackList(name string) *CallbackList {
	return &CallbackList{name: name}
}

func (l *CallbackList) String() string {
	return "CallbackList(" + l.name + ")"
}

// Subscribe registers fn and returns its subscription.
func (l *CallbackList) Subscribe(fn func()) *Subscription {
	s := &Subscription{list: l, fn: fn}
	l.subs = append(l.subs, s)
	return s
}

// Len returns the number of live subscriptions.
func (l *CallbackList) Len() int { return len(l.subs) }

// Execute runs every subscribed callback in subscription order. A callback
// unsubscribed by an earlier one in the same run is skipped.
func (l *CallbackList) Execute() {
	for _, s := range slices.Clone(l.subs) {
		if s.list == l {
			s.fn()
		}
	}
}

// Unsubscribe removes the callback. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.list == nil {
		return
	}
	l := s.list
	s.list = nil
	if i := slices.Index(l.subs, s); i >= 0 {
		l.subs = slices.Delete(l.subs, i, i+1)
	}
}
