package rx

import "fmt"

// NotificationKind tells which channel of the protocol a Notification
// reifies.
type NotificationKind string

const (
	KindNext     NotificationKind = "next"
	KindError    NotificationKind = "error"
	KindComplete NotificationKind = "complete"
)

// Notification is one push-protocol event as plain data.
type Notification[T any] struct {
	Kind  NotificationKind
	Value T
	Err   error
}

func NextNotification[T any](value T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: value}
}

func ErrorNotification[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

func CompleteNotification[T any]() Notification[T] {
	return Notification[T]{Kind: KindComplete}
}

// Accept replays the notification on observer.
func (n Notification[T]) Accept(observer Observer[T]) {
	switch n.Kind {
	case KindNext:
		observer.Next(n.Value)
	case KindError:
		observer.Error(n.Err)
	case KindComplete:
		observer.Complete()
	default:
		observer.Error(fmt.Errorf("rx: invalid notification kind %q", n.Kind))
	}
}

func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", n.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", n.Err)
	default:
		return string(n.Kind)
	}
}
