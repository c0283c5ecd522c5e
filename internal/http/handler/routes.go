package handler

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfstore/internal/apperr"
	"pdfstore/internal/model"
	"pdfstore/internal/service"
)

// listResponse is the payload for GET /documents.
type listResponse struct {
	Count int              `json:"count"`
	Data  []model.Document `json:"data"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all validation and consistency logic lives in the service.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documents", ListDocuments(docSvc))
	app.Post("/documents", UploadDocument(docSvc))
	app.Get("/documents/:id", DownloadDocument(docSvc))
	app.Delete("/documents/:id", DeleteDocument(docSvc))
}

// HealthCheck reports readiness; it checks DB connectivity only.
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness probe.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListDocuments returns all documents, newest first.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {object} listResponse
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(listResponse{Count: len(docs), Data: docs})
	}
}

// UploadDocument accepts a single PDF via multipart/form-data (field name: file).
//
// @Summary Upload a PDF document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// DownloadDocument streams a document's content as an attachment.
//
// @Summary Download a document
// @Tags documents
// @Produce application/pdf
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, rc, err := svc.Download(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}

		c.Set(fiber.HeaderContentType, service.AcceptedMimeType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		// fasthttp closes the stream when the response is done.
		return c.SendStream(rc, int(doc.FileSize))
	}
}

// DeleteDocument removes a document and its stored file.
//
// @Summary Delete a document
// @Tags documents
// @Param id path int true "Document ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return id, nil
}

// serviceError translates the service's error kinds into transport responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidType:
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "only PDF files are allowed")
	case apperr.KindTooLarge:
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the maximum allowed size")
	case apperr.KindNotFound:
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
