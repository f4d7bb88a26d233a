package transport

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs struct-tag validation on a request DTO. Schema violations are
// reported to the client as 422, separate from business-rule rejections.
func Validate(req interface{}) error {
	return validate.Struct(req)
}
