package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TrackingTokenSize gives roughly 190 bits of entropy with the alphanumeric alphabet.
const TrackingTokenSize = 32

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// TrackingToken returns a new opaque client tracking token.
func TrackingToken() (string, error) {
	return gonanoid.Generate(nanoidAlphabet, TrackingTokenSize)
}
