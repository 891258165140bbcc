// Package media declares the codec adapter boundary: the protocol core
// hands compressed units to decoders and receives them from encoders
// without ever inspecting their contents beyond the leading byte.
package media

import (
	"io"

	"github.com/kailani/avtransport/internal/logging"
)

var log = logging.DefaultLogger.WithTag("media")

// Decoder is the interface for stateful audio and video decoders. One
// compressed unit goes in; a raw frame comes out once the decoder has
// accumulated enough input, nil otherwise.
type Decoder interface {
	io.Closer

	Decode(unit []byte) (frame []byte, err error)
}

// Encoder is the interface for stateful audio and video encoders. One
// raw frame goes in; the ordered compressed units of the resulting
// access unit come out.
type Encoder interface {
	io.Closer

	Encode(frame []byte) (units [][]byte, err error)
}
