package domain

// ServiceResponse is the uniform result envelope for business operations.
// Expected business-rule failures are reported with Success=false and a
// user-facing message rather than an error.
type ServiceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK returns a successful response carrying data.
func OK(data any) ServiceResponse {
	return ServiceResponse{Success: true, Data: data}
}

// Fail returns a failed response with a user-facing message.
func Fail(message string) ServiceResponse {
	return ServiceResponse{Success: false, Message: message}
}
