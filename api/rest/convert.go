package rest

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mediaconverter/api/model"
	"mediaconverter/config"
	"mediaconverter/converter"
	"mediaconverter/shared/log"
)

// uploadGrace is added to the conversion timeout to cover persisting the upload.
const uploadGrace = 30 * time.Second

type ConvertService interface {
	Convert(ctx context.Context, req model.ConvertRequest) (*model.ConvertResponse, error)
}

type ConvertController struct {
	cfg     *config.Config
	service ConvertService
	logger  *zap.Logger
}

func NewConvertController(app *fiber.App, cfg *config.Config, service ConvertService, logger *zap.Logger) *ConvertController {
	i := &ConvertController{cfg: cfg, service: service, logger: logger}

	app.Post("/convert/:id", i.Convert)

	return i
}

// Convert file
//
//	@Summary		Convert an uploaded file
//	@Description	Runs the operation on the uploaded file and returns the converted file as an attachment.
//	@Tags			convert
//	@Accept			multipart/form-data
//	@Produce		application/octet-stream,text/plain
//	@Param			id		path		string	true	"Operation identifier"
//	@Param			file	formData	file	true	"File to convert"
//	@Param			width	formData	int		false	"Target width, resize_image only"
//	@Param			height	formData	int		false	"Target height, resize_image only"
//	@Success		200		{file}		file	"Converted file"
//	@Failure		400		{string}	string	"Validation or conversion error"
//	@Failure		500		{string}	string	"Internal server error"
//	@Router			/convert/{id}/ [post]
func (i *ConvertController) Convert(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), i.cfg.ConversionTimeout+uploadGrace)
	defer cancel()
	logger := log.LoggerWithTrace(ctx, i.logger)

	req := model.ConvertRequest{Operation: c.Params("id")}
	if _, err := converter.Lookup(req.Operation); err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		logger.Debug("No file in request", zap.Error(err))
		return converter.NoFileUploaded()
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("Error opening upload", zap.Error(err))
		return err
	}
	defer file.Close()

	req.Width = c.FormValue("width")
	req.Height = c.FormValue("height")
	req.Filename = header.Filename
	req.Size = header.Size
	req.File = file

	resp, err := i.service.Convert(ctx, req)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, resp.Type)
	c.Set(fiber.HeaderContentDisposition, resp.ContentDisposition)
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(resp.ContentLength, 10))

	return c.SendStream(resp.Body, int(resp.ContentLength))
}
