package kv

// Converter maps a wire Object to a caller-defined domain type. It is
// supplied by the caller when building a command; conversion failures
// propagate as the command's failure.
type Converter[T any] interface {
	Convert(obj Object) (T, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc[T any] func(obj Object) (T, error)

func (f ConverterFunc[T]) Convert(obj Object) (T, error) {
	return f(obj)
}

// passThroughConverter returns the wire object unchanged.
type passThroughConverter struct{}

func (passThroughConverter) Convert(obj Object) (Object, error) {
	return obj, nil
}

// NewPassThroughConverter creates the default converter used when no domain
// conversion is needed.
func NewPassThroughConverter() Converter[Object] {
	return passThroughConverter{}
}

// ConvertAll converts a list of wire objects in order. The first conversion
// failure aborts and is returned unchanged.
func ConvertAll[T any](converter Converter[T], objs []Object) ([]T, error) {
	converted := make([]T, 0, len(objs))
	for _, obj := range objs {
		value, err := converter.Convert(obj)
		if err != nil {
			return nil, err
		}
		converted = append(converted, value)
	}
	return converted, nil
}
