package statefold

import "errors"

// ErrIO is wrapped by every failure to read an input file or write the
// state log.
var ErrIO = errors.New("i/o failure")
