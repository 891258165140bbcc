package media

import (
	"sort"

	"github.com/pkg/errors"
)

// Codec adapters register themselves by codec tag (e.g. "h264") so the
// wiring layer can construct them from a stream's negotiated codec
// name.

// DecoderFunc constructs a decoder for one stream.
type DecoderFunc func() (Decoder, error)

// EncoderFunc constructs an encoder for one stream.
type EncoderFunc func() (Encoder, error)

var (
	decoderRegistry = map[string]DecoderFunc{}
	encoderRegistry = map[string]EncoderFunc{}
)

// RegisterDecoder registers a decoder constructor for a codec tag.
func RegisterDecoder(tag string, open DecoderFunc) {
	decoderRegistry[tag] = open
}

// RegisterEncoder registers an encoder constructor for a codec tag.
func RegisterEncoder(tag string, open EncoderFunc) {
	encoderRegistry[tag] = open
}

// OpenDecoder constructs a decoder for the given codec tag.
func OpenDecoder(tag string) (Decoder, error) {
	logRegistered("decoder", decoderTags())
	if open, found := decoderRegistry[tag]; found {
		return open()
	}
	return nil, errors.Errorf("decoder for codec '%s' not registered", tag)
}

// OpenEncoder constructs an encoder for the given codec tag.
func OpenEncoder(tag string) (Encoder, error) {
	logRegistered("encoder", encoderTags())
	if open, found := encoderRegistry[tag]; found {
		return open()
	}
	return nil, errors.Errorf("encoder for codec '%s' not registered", tag)
}

func decoderTags() []string {
	var tags []string
	for tag := range decoderRegistry {
		tags = append(tags, tag)
	}
	return tags
}

func encoderTags() []string {
	var tags []string
	for tag := range encoderRegistry {
		tags = append(tags, tag)
	}
	return tags
}

func logRegistered(what string, tags []string) {
	sort.Strings(tags)
	log.Debug("registered %s codecs: %v", what, tags)
}
