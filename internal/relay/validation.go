package relay

import (
	"errors"
	"regexp"
	"strings"

	"bitbucket.org/crgw/carrier-call-relay/internal/config"
	"github.com/go-playground/validator/v10"
)

var contactNumberPattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("e164ish", func(fl validator.FieldLevel) bool {
		return contactNumberPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	return v
}

// triggerFields fixes the order errors are reported in.
type triggerFields struct {
	Carrier       string `validate:"notblank"`
	FreightOrder  string `validate:"notblank"`
	ContactNumber string `validate:"e164ish"`
}

type Messages struct {
	CarrierRequired      string
	FreightOrderRequired string
	ContactNumberFormat  string
	Unparsable           string
}

func MessagesFor(format config.Format) Messages {
	if format == config.FormatHTML {
		return Messages{
			CarrierRequired:      "carrier contact name is required",
			FreightOrderRequired: "freightOrder (FRO) is required",
			ContactNumberFormat:  "contactNumber must look like +4512345678",
			Unparsable:           "request body could not be parsed",
		}
	}

	return Messages{
		CarrierRequired:      "carrier is required",
		FreightOrderRequired: "freightOrder (FRO) is required",
		ContactNumberFormat:  "contactNumber must look like +<digits>",
		Unparsable:           "request body could not be parsed",
	}
}

// Validate returns one message per failing field, all fields checked.
func Validate(request TriggerRequest, messages Messages) []string {
	err := validate.Struct(triggerFields{
		Carrier:       request.CarrierName(),
		FreightOrder:  request.FreightOrder,
		ContactNumber: request.ContactNumber,
	})
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}

	result := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		switch fieldError.StructField() {
		case "Carrier":
			result = append(result, messages.CarrierRequired)
		case "FreightOrder":
			result = append(result, messages.FreightOrderRequired)
		case "ContactNumber":
			result = append(result, messages.ContactNumberFormat)
		}
	}

	return result
}
