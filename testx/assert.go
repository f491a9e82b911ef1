package testx

// AssertAndPanicOnError unwraps a (value, error) pair in test setup code where a
// failure means the fixture itself is broken.
func AssertAndPanicOnError[T any](item T, err error) T {
	if err != nil {
		panic(err.Error())
	}
	return item
}
