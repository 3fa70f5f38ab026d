package dto

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type RefreshPricesResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

func NewMessageResponse(message string) *MessageResponse {
	return &MessageResponse{Message: message}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

func NewValidationErrorResponse(fields map[string]string) *ErrorResponse {
	return &ErrorResponse{Message: "Invalid input", Errors: fields}
}
