package httpapi

import "github.com/sagar-developer08/Api-v2-sub001/internal/models"

// Result is the envelope every route responds with.
type Result struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Error      string             `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

func OkMessage(data any, message string) Result {
	return Result{Success: true, Data: data, Message: message}
}

func OkPage(data any, p models.Pagination) Result {
	return Result{Success: true, Data: data, Pagination: &p}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// FailErr carries the underlying error text alongside a generic message.
func FailErr(message string, err error) Result {
	r := Result{Success: false, Message: message}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
