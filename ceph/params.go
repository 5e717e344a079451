package ceph

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report parameters by the names callers use
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decodeParams decodes the caller's argument map into a parameter struct holding the defaults,
// then validates it.
func decodeParams(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncKind(decodeBool),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Squash:           true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}

	err = decoder.Decode(args)
	if err != nil {
		return validationErrorf("invalid parameters: %v", err)
	}

	err = validate.Struct(out)
	if err != nil {
		return validationFromError(err)
	}

	return nil
}

// decodeBool accepts the yes/no spellings configuration tools use for booleans.
func decodeBool(from reflect.Kind, to reflect.Kind, data any) (any, error) {
	if from != reflect.String || to != reflect.Bool {
		return data, nil
	}

	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "yes", "y", "on", "true", "1":
		return true, nil
	case "no", "n", "off", "false", "0", "":
		return false, nil
	}

	return nil, fmt.Errorf("'%s' is not a valid boolean", data)
}

func validationFromError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return validationErrorf("invalid parameters: %v", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("missing required arguments: %s", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("value of %s must be one of: %s, got: %v", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid value for %s: %v (must satisfy %s %s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}

	return &ValidationError{Msg: strings.Join(msgs, "; ")}
}
