package rest

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mediaconverter/api/model"
	"mediaconverter/converter"
	"mediaconverter/operation"
	"mediaconverter/shared/log"
)

type OperationController struct {
	logger *zap.Logger
}

func NewOperationController(app *fiber.App, logger *zap.Logger) *OperationController {
	o := &OperationController{logger: logger}

	app.Get("/", o.List)
	app.Get("/operation/:id", o.Get)

	return o
}

// List operations
//
//	@Summary		List available conversions
//	@Description	Returns every conversion operation in display order.
//	@Tags			operation
//	@Produce		json
//	@Success		200	{array}	model.OperationResponse
//	@Router			/ [get]
func (o *OperationController) List(c *fiber.Ctx) error {
	return c.JSON(model.NewOperationList(operation.All()))
}

// Get operation
//
//	@Summary		Describe one conversion
//	@Description	Returns the upload form metadata for a single operation.
//	@Tags			operation
//	@Produce		json
//	@Param			id	path		string	true	"Operation identifier"
//	@Success		200	{object}	model.OperationResponse
//	@Failure		400	{string}	string	"Invalid operation"
//	@Router			/operation/{id}/ [get]
func (o *OperationController) Get(c *fiber.Ctx) error {
	logger := log.LoggerWithTrace(c.UserContext(), o.logger)

	op, err := converter.Lookup(c.Params("id"))
	if err != nil {
		logger.Debug("Unknown operation requested", zap.Error(err))
		return err
	}

	return c.JSON(model.NewOperationResponse(op))
}
