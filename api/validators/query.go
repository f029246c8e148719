package validators

import (
	"net/http"
	"strconv"

	pkgerrors "github.com/kinawahq/foodorder-backend/pkg/errors"
)

// QueryBool reads an optional boolean query parameter.
func QueryBool(r *http.Request, name string, fallback bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid boolean query parameter").
			WithDetails(map[string]any{"param": name, "value": raw})
	}
	return value, nil
}

// QueryInt reads an optional non-negative integer query parameter.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid numeric query parameter").
			WithDetails(map[string]any{"param": name, "value": raw})
	}
	return value, nil
}
