package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"finbox/internal/service"
)

// contentURLTTL bounds how long a presigned raw-content link stays valid.
const contentURLTTL = 15 * time.Minute

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers translate requests into service calls and map structured service
// errors to HTTP codes; no business logic lives here.
func RegisterRoutes(app *fiber.App, db *sql.DB, reg service.RegistryService, inbox service.InboxService, atts service.AttachmentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/documentos", ListDocuments(inbox))
	app.Post("/documentos", CreateDocument(reg))
	app.Get("/documentos/:id", GetDocument(inbox))
	app.Post("/documentos/:id/confirmar", ConfirmDocument(reg))
	app.Get("/documentos/:id/email-original", OriginalEmailLink(inbox))

	app.Put("/anexos/:id/conteudo", UploadAttachmentContent(atts))
	app.Get("/anexos/:id/conteudo", GetAttachmentContent(atts))
	app.Put("/anexos/:id/preview", SetAttachmentPreview(atts))
	app.Get("/anexos/:id/preview", GetAttachmentPreview(atts))
}

// HealthCheck reports readiness by pinging the database.
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

// ListDocuments lists the financial inbox with limit/offset pagination and
// optional tipo/status filters.
// @Summary List documents
// @Produce json
// @Router /documentos [get]
func ListDocuments(inbox service.InboxService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		f := service.ListFilter{
			Tipo:   c.Query("tipo"),
			Status: c.Query("status"),
		}

		res, err := inbox.ListInbox(c.UserContext(), f, limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateDocument ingests a parsed document draft, storing it as PENDING.
// @Summary Create document
// @Accept json
// @Produce json
// @Router /documentos [post]
func CreateDocument(reg service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var draft service.DocumentDraft
		if err := c.BodyParser(&draft); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := reg.Create(c.UserContext(), &draft)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one document with attachments and full history.
// @Summary Get document
// @Produce json
// @Router /documentos/{id} [get]
func GetDocument(inbox service.InboxService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := inbox.GetDocument(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ConfirmDocument marks a PENDING document as CONFIRMED on behalf of the
// usuario query parameter and returns the updated document.
// @Summary Confirm document
// @Produce json
// @Router /documentos/{id}/confirmar [post]
func ConfirmDocument(reg service.RegistryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		usuario := c.Query("usuario")
		if usuario == "" {
			return writeError(c, fiber.StatusBadRequest, "USUARIO_REQUIRED", "usuario is required")
		}

		doc, err := reg.Confirm(c.UserContext(), id, usuario)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// OriginalEmailLink returns the document's original-email link. A missing
// link is a normal result: {"link": null}.
// @Summary Original email link
// @Produce json
// @Router /documentos/{id}/email-original [get]
func OriginalEmailLink(inbox service.InboxService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		link, err := inbox.OriginalEmailLink(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(link)
	}
}

// UploadAttachmentContent stores the raw bytes of an ingested attachment
// (multipart/form-data, field name: file).
func UploadAttachmentContent(atts service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
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

		att, err := atts.UploadContent(c.UserContext(), id, f, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(att)
	}
}

// GetAttachmentContent redirects to a presigned download URL for the raw content.
func GetAttachmentContent(atts service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := atts.ContentURL(c.UserContext(), id, contentURLTTL)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// SetAttachmentPreview receives rendered preview bytes from the preview
// collaborator (multipart/form-data, field name: file).
func SetAttachmentPreview(atts service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
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
			ct = "image/png"
		}

		if err := atts.SetPreview(c.UserContext(), id, f, ct, fh.Size); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetAttachmentPreview serves the cached preview bytes. 204 means the preview
// has not been rendered yet.
func GetAttachmentPreview(atts service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		img, err := atts.Preview(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		if img == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		c.Set(fiber.HeaderContentType, img.ContentType)
		return c.Send(img.Bytes)
	}
}

// serviceError maps structured service errors onto the standard envelope.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrAlreadyConfirmed):
		return writeError(c, fiber.StatusConflict, "ALREADY_CONFIRMED", "document already confirmed")
	case errors.Is(err, service.ErrIDRequired),
		errors.Is(err, service.ErrUsuarioRequired),
		errors.Is(err, service.ErrTipoInvalid),
		errors.Is(err, service.ErrStatusInvalid),
		errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
