package rx

// Operator connects a downstream subscriber to an upstream source. Call
// typically subscribes to source with a subscriber that transforms the
// notifications before handing them to subscriber.
type Operator[S, T any] interface {
	Call(subscriber *Subscriber[T], source Observable[S])
}

// OperatorCallFunc adapts a function to an Operator.
type OperatorCallFunc[S, T any] func(subscriber *Subscriber[T], source Observable[S])

func (f OperatorCallFunc[S, T]) Call(subscriber *Subscriber[T], source Observable[S]) {
	f(subscriber, source)
}

// OperatorFunc is a pipeable operator: a pure function from one Observable
// to another.
type OperatorFunc[S, T any] func(source Observable[S]) Observable[T]

type liftedSource[T any] interface {
	call(subscriber *Subscriber[T])
}

type lifted[S, T any] struct {
	source   Observable[S]
	operator Operator[S, T]
}

func (l lifted[S, T]) call(subscriber *Subscriber[T]) {
	l.operator.Call(subscriber, l.source)
}

// Lift builds an Observable whose subscription runs operator against source.
func Lift[S, T any](source Observable[S], operator Operator[S, T]) Observable[T] {
	return Observable[T]{lifted: lifted[S, T]{source: source, operator: operator}}
}

// Operate turns an init function into a pipeable operator. init runs once
// per subscription with the source and the downstream subscriber; a panic
// in it errors the subscriber.
func Operate[S, T any](init func(source Observable[S], subscriber *Subscriber[T])) OperatorFunc[S, T] {
	call := OperatorCallFunc[S, T](func(subscriber *Subscriber[T], source Observable[S]) {
		init(source, subscriber)
	})

	return func(source Observable[S]) Observable[T] {
		return Lift[S, T](source, call)
	}
}

func Pipe1[A, B any](source Observable[A], op1 OperatorFunc[A, B]) Observable[B] {
	return op1(source)
}

func Pipe2[A, B, C any](source Observable[A], op1 OperatorFunc[A, B], op2 OperatorFunc[B, C]) Observable[C] {
	return op2(op1(source))
}

func Pipe3[A, B, C, D any](
	source Observable[A],
	op1 OperatorFunc[A, B],
	op2 OperatorFunc[B, C],
	op3 OperatorFunc[C, D],
) Observable[D] {
	return op3(op2(op1(source)))
}

func Pipe4[A, B, C, D, E any](
	source Observable[A],
	op1 OperatorFunc[A, B],
	op2 OperatorFunc[B, C],
	op3 OperatorFunc[C, D],
	op4 OperatorFunc[D, E],
) Observable[E] {
	return op4(op3(op2(op1(source))))
}

func Pipe5[A, B, C, D, E, F any](
	source Observable[A],
	op1 OperatorFunc[A, B],
	op2 OperatorFunc[B, C],
	op3 OperatorFunc[C, D],
	op4 OperatorFunc[D, E],
	op5 OperatorFunc[E, F],
) Observable[F] {
	return op5(op4(op3(op2(op1(source)))))
}

func Pipe6[A, B, C, D, E, F, G any](
	source Observable[A],
	op1 OperatorFunc[A, B],
	op2 OperatorFunc[B, C],
	op3 OperatorFunc[C, D],
	op4 OperatorFunc[D, E],
	op5 OperatorFunc[E, F],
	op6 OperatorFunc[F, G],
) Observable[G] {
	return op6(op5(op4(op3(op2(op1(source))))))
}
