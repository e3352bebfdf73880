package ext

// CatchPanic runs f and converts a panic carrying an error into the
// returned error. Panics with any other value are re-raised.
func CatchPanic(f func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = e
			} else {
				panic(p)
			}
		}
	}()

	f()
	return nil
}
