package request

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/store/pkg/apperr"
)

const maxBodyBytes = 1 << 20

// BindJSON decodes the body keeping numbers as json.Number, so "6.99" reaches
// the validator exactly as the client wrote it. An empty body leaves v as is.
func BindJSON(c echo.Context, v any) error {
	dec := json.NewDecoder(io.LimitReader(c.Request().Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.ErrInvalidInput, "Invalid input data", err)
	}
	return nil
}
