package orion

import "fmt"

// Handle panics with a description of the failed operation if err is not nil.
func Handle(err error, desc string, args ...any) {
	if err != nil {
		panic(fmt.Errorf(desc+": %w", append(args, err)...))
	}
}
