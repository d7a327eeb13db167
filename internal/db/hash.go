package db

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/mitchellh/mapstructure"
)

// toHash turns the exported fields of a struct into hash fields, text marshalers are stored in their text form
func toHash(v any) (map[string]any, error) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot store %T as a redis hash", v)
	}
	hash := map[string]any{}
	for _, field := range reflect.VisibleFields(rv.Type()) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		switch value := rv.FieldByIndex(field.Index).Interface().(type) {
		case encoding.TextMarshaler:
			text, err := value.MarshalText()
			if err != nil {
				return nil, fmt.Errorf("cannot encode field %s: %w", field.Name, err)
			}
			hash[field.Name] = string(text)
		case string:
			hash[field.Name] = value
		default:
			hash[field.Name] = fmt.Sprint(value)
		}
	}
	return hash, nil
}

// fromHash decodes the output of HGETALL, which is empty when the key does not exist
func fromHash(hash map[string]string, output any) error {
	if len(hash) == 0 {
		return gwerrors.ErrMissingDBResource
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
		Result:     output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(hash)
}
