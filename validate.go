package depreq

import "github.com/go-playground/validator/v10"

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// WithValidation runs go-playground/validator's struct tag validation
// (`validate:"..."`) against a decoded body, turning a validation failure
// into a KindInvalidBody Failure instead of a panic or a silently-accepted
// struct.
func WithValidation[T any]() ParamOption[T] {
	return func(p *Param[T]) {
		inner := p.extract
		p.extract = func(req *Request, cfg Config) (T, *Failure) {
			v, f := inner(req, cfg)
			if f != nil {
				return v, f
			}
			if err := structValidator.Struct(v); err != nil {
				return v, invalid(KindInvalidBody, p.name, "", err)
			}
			return v, nil
		}
	}
}
