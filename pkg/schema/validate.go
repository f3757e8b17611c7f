package schema

import (
	"slices"

	"github.com/aretw0/nls/pkg/domain"
)

// Schema maps parameter keys to their expected types.
// Example: {"target_pH": Float(), "cycles": Int()}
type Schema map[string]Type

// Validate checks the values of data that the schema declares.
// Keys the schema does not mention are accepted as long as they hold a valid scalar;
// overrides are optional, so absent keys are never an error.
func Validate(schema Schema, data map[string]domain.Scalar) error {
	return aggregate(validateValues("", schema, data))
}

func validateValues(base string, schema Schema, data map[string]domain.Scalar) []error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		value := data[key]
		fieldType, ok := schema[key]
		if !ok {
			fieldType = Scalar()
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Path:   base + domain.Pointer(key),
				Reason: err.Error(),
				Value:  value.Value(),
			})
		}
	}
	return errs
}
