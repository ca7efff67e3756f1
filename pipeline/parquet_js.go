//go:build js

package pipeline

import "errors"

func marshalParquet[T any](rows []T) ([]byte, error) {
	return nil, errors.New("parquet output is not available in js builds (use csv)")
}
