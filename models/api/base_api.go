package apimodels

type Response struct {
	Status  string      `json:"status"`            //результат обработки fail/success
	Code    string      `json:"code,omitempty"`    //код ошибки
	Message string      `json:"message,omitempty"` //сообщение ошибки
	Data    interface{} `json:"data,omitempty"`    //данные ответа
}

const (
	CodeBadRequest      = "bad_request"
	CodeResourceLocked  = "resource_locked"
	CodeNotFound        = "not_found"
	CodeInvalidState    = "invalid_state"
	CodeDuplicateAnswer = "duplicate_answer"
	CodeProviderError   = "provider_error"
	CodeInternal        = "internal"
)

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewCodeError(code, message string) Response {
	return Response{
		Status:  "fail",
		Code:    code,
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}
