package rx

import "fmt"

// record appends every notification to log as "next v", "error e" or
// "complete".
func record[T any](log *[]string) ObserverFuncs[T] {
	return ObserverFuncs[T]{
		OnNext:     func(v T) { *log = append(*log, fmt.Sprintf("next %v", v)) },
		OnError:    func(err error) { *log = append(*log, fmt.Sprintf("error %v", err)) },
		OnComplete: func() { *log = append(*log, "complete") },
	}
}

// unhandled returns a config collecting unhandled errors into errs.
func unhandled(errs *[]error) *Config {
	return &Config{
		OnUnhandledError: func(err error) { *errs = append(*errs, err) },
	}
}
