package imagecodec

import "errors"

var (
	errEmpty    = errors.New("empty image payload")
	errTooLarge = errors.New("image payload exceeds upload limit")
	errNilImage = errors.New("nil image")
)
