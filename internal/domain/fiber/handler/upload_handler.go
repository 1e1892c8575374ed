package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/fadilmartias/cv-feedback/internal/dto"
	"github.com/fadilmartias/cv-feedback/internal/middleware"
	"github.com/fadilmartias/cv-feedback/internal/service"
	"github.com/fadilmartias/cv-feedback/internal/usecase"
	"github.com/fadilmartias/cv-feedback/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	msgNoFile          = "No file provided"
	msgInvalidFileType = "Invalid file type. Please upload a PDF, DOCX, or TXT file."
	msgFileTooLarge    = "File is too large. Maximum size is 5MB."
	msgInvalidRequest  = "Invalid upload request"
	msgTimeout         = "Analysis service timed out. Please try again later."
	msgUnavailable     = "Analysis service is unavailable. Please try again later."
	msgBadReply        = "Analysis service returned an invalid response"
	msgNoAnalysis      = "No analysis results found. Please upload a CV first."
)

// BodyLimit leaves room for the multipart envelope around a maximum size
// résumé.
const BodyLimit = int(util.MaxUploadSize) + 1<<20

type UploadHandler struct {
	uc *usecase.AnalysisUsecase
}

func NewUploadHandler(uc *usecase.AnalysisUsecase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func (h *UploadHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Post("/upload", middleware.RateLimiter(10, 1*time.Minute), h.Upload)
	api.Get("/last-analysis", h.LastAnalysis)
	api.Get("/analyses", h.History)
	api.Get("/analyses/:id", h.Analysis)
}

// Upload handles POST /api/upload. A successful backend reply is passed
// through byte for byte.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: msgNoFile,
		}, err)
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	if err := util.ValidateFile(file.Filename, contentType, file.Size); err != nil {
		return h.analysisError(c, err)
	}

	src, err := file.Open()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cannot read uploaded file",
		}, err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, util.MaxUploadSize+1))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "cannot read uploaded file",
		}, err)
	}

	req := &dto.UploadRequest{
		FileName:       file.Filename,
		ContentType:    contentType,
		Content:        content,
		Language:       c.FormValue("language", "en"),
		JobDescription: strings.TrimSpace(c.FormValue("job_description")),
	}
	log.Printf("Processing upload request: %s, type: %s, size: %d bytes, language: %s", req.FileName, contentType, file.Size, req.Language)

	result, err := h.uc.Analyze(c.UserContext(), req)
	if err != nil {
		log.Printf("Analysis of %s failed: %v", req.FileName, err)
		return h.analysisError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(result.Body)
}

// LastAnalysis handles GET /api/last-analysis.
func (h *UploadHandler) LastAnalysis(c *fiber.Ctx) error {
	result, err := h.uc.LastAnalysis(c.UserContext())
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(fiber.Map{"analysis": json.RawMessage(result.AnalysisRaw)})
}

// Analysis handles GET /api/analyses/:id.
func (h *UploadHandler) Analysis(c *fiber.Ctx) error {
	result, err := h.uc.AnalysisByID(c.Params("id"))
	if errors.Is(err, usecase.ErrHistoryDisabled) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: "analysis history is not enabled on this server",
		})
	}
	if errors.Is(err, usecase.ErrNoAnalysis) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "analysis not found",
		})
	}
	if err != nil {
		return h.analysisError(c, err)
	}
	return c.JSON(fiber.Map{"analysis": json.RawMessage(result.AnalysisRaw)})
}

// History handles GET /api/analyses.
func (h *UploadHandler) History(c *fiber.Ctx) error {
	records, pagination, err := h.uc.History(c.QueryInt("page", 1), c.QueryInt("page_size", 20))
	if errors.Is(err, usecase.ErrHistoryDisabled) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: "analysis history is not enabled on this server",
		})
	}
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load analysis history",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get analysis history",
		Data:       records,
		Pagination: pagination,
	})
}

func (h *UploadHandler) analysisError(c *fiber.Ctx, err error) error {
	var (
		fileErr    *util.FileError
		backendErr *service.BackendError
		validErrs  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &fileErr) && fileErr.Kind == util.FileTooLarge:
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: msgFileTooLarge}, err)
	case errors.As(err, &fileErr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusBadRequest, Message: msgInvalidFileType}, err)
	case errors.As(err, &validErrs):
		fields := make(map[string]string, len(validErrs))
		for _, fe := range validErrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: msgInvalidRequest,
			Details: util.NewFormError(msgInvalidRequest, fields),
		})
	case errors.Is(err, usecase.ErrNoAnalysis):
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusNotFound, Message: msgNoAnalysis})
	case errors.Is(err, service.ErrBackendTimeout):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: msgTimeout,
			Reason:  service.ReasonBackendTimeout,
		}, err)
	case errors.Is(err, service.ErrBackendUnreachable):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: msgUnavailable,
			Reason:  service.ReasonBackendUnreachable,
		}, err)
	case errors.As(err, &backendErr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusInternalServerError,
			Message: fmt.Sprintf("Analysis service error (%d): %s", backendErr.StatusCode, backendErr.Body),
		}, err)
	case errors.Is(err, service.ErrMalformedResponse):
		return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusInternalServerError, Message: msgBadReply}, err)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "Failed to analyze CV"}, err)
	}
}

// ErrorHandler renders errors that escape handlers, e.g. from middleware, as
// {"error": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}

	return c.Status(code).JSON(dto.ErrorDTO{Error: message})
}
