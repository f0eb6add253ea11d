package error

import "net/http"

// UnsupportedKindError rejects uploads outside the PDF/CSV/TXT set.
type UnsupportedKindError string

func (err UnsupportedKindError) Error() string {
	return string(err)
}

func (err UnsupportedKindError) ErrCode() string {
	return "UNSUPPORTED_FILE_TYPE"
}

func (err UnsupportedKindError) StatusCode() int {
	return http.StatusBadRequest
}

// EmptyExtractionError rejects uploads whose extraction yields no usable text.
type EmptyExtractionError string

func (err EmptyExtractionError) Error() string {
	return string(err)
}

func (err EmptyExtractionError) ErrCode() string {
	return "EMPTY_EXTRACTION"
}

func (err EmptyExtractionError) StatusCode() int {
	return http.StatusBadRequest
}
