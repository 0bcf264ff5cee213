package fusion

import "github.com/rotisserie/eris"

// ErrLoadFailure marks a failure of the load cycle itself, as opposed to a
// single resource being unavailable. A partial feature table is never safe
// to present as complete, so the whole cycle surfaces as one terminal error
// and an explicit reload is the only recovery path.
var ErrLoadFailure = eris.New("fusion: load cycle failed")
