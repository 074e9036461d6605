package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mediaconverter/converter"
	"mediaconverter/shared/log"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler renders conversion errors as 400 plain text and hides anything else behind a 500.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		l := log.LoggerWithTrace(c.UserContext(), logger)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

		var cerr *converter.Error
		if errors.As(err, &cerr) {
			l.Info("Conversion rejected",
				zap.String("path", c.Path()),
				zap.String("error_type", string(cerr.Type)),
				zap.Error(err),
			)
			return c.Status(fiber.StatusBadRequest).SendString(cerr.ClientMessage())
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).SendString(ferr.Message)
		}

		l.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString(internalErrorMessage)
	}
}
