package response

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// FormatValidationErrors flattens validator errors into field->message pairs
// so clients don't have to parse the raw validator output.
func FormatValidationErrors(err error) interface{} {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		case "min":
			fields[fe.Field()] = "is below the minimum of " + fe.Param()
		case "max":
			fields[fe.Field()] = "exceeds the maximum of " + fe.Param()
		case "uuid":
			fields[fe.Field()] = "must be a valid UUID"
		default:
			fields[fe.Field()] = "failed validation on '" + fe.Tag() + "'"
		}
	}
	return fields
}
