package utils

// ResponseData is the JSON envelope used for error and confirmation payloads.
type ResponseData struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics with the given error so the recovery middleware can
// translate it into the proper HTTP response. Handlers use it to keep the
// happy path flat.
func PanicIfNeeded(err error) {
	if err != nil {
		panic(err)
	}
}
