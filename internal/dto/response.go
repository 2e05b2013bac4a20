package dto

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data"`
	Errors  []string `json:"errors"`
}

func SuccessResponse(data any, message string) Response {
	return Response{Success: true, Message: message, Data: data, Errors: []string{}}
}

func ErrorResponse(message string, errs ...string) Response {
	if errs == nil {
		errs = []string{}
	}
	return Response{Success: false, Message: message, Data: nil, Errors: errs}
}
