package record

import (
	"errors"
	"io"
	"strconv"

	"backend-hoursledger/internal/proof"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires the CRUD surface for one record kind. Every route is
// owner-scoped through the authenticated user id in locals.
func RegisterRoutes(r fiber.Router, svc *Service, kind Kind, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		records, err := svc.List(c.Context(), kind, userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if records == nil {
			records = []Record{}
		}
		return c.JSON(records)
	})

	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)

		hours, err := strconv.ParseFloat(c.FormValue("hours_attended"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "hours_attended must be a number")
		}
		input := CreateInput{
			Name:          c.FormValue("name"),
			HoursAttended: hours,
		}

		var upload *ProofUpload
		if fh, err := c.FormFile("proof"); err == nil {
			file, err := fh.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "cannot read proof file")
			}
			data, err := io.ReadAll(file)
			_ = file.Close()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "cannot read proof file")
			}
			upload = &ProofUpload{
				Name:         fh.Filename,
				DeclaredType: fh.Header.Get("Content-Type"),
				Data:         data,
			}
		}

		rec, err := svc.Create(c.Context(), kind, userID, input, upload)
		if err != nil {
			return createError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	r.Get("/:id/proof", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		dl, err := svc.DownloadProof(c.Context(), kind, userID, c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoProof) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, dl.DeclaredType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+dl.Name+`"`)
		return c.Send(dl.Data)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Delete(c.Context(), kind, userID, c.Params("id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func createError(err error) error {
	switch {
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidHours),
		errors.Is(err, proof.ErrFileTooLarge),
		errors.Is(err, proof.ErrUnsupportedFileType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
