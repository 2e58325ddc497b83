package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/httpresp"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/pet"
)

const maxPhotoBytes = 5 << 20

type petService interface {
	Create(ctx context.Context, sess *session.Session, in pet.CreateInput) (*models.Pet, error)
	Get(ctx context.Context, sess *session.Session, code string) (*models.Pet, error)
	UploadPhoto(ctx context.Context, sess *session.Session, code string, photo io.Reader) (*models.Pet, error)
}

type PetHandler struct {
	svc petService
	log *zap.Logger
}

func NewPetHandler(svc petService, log *zap.Logger) *PetHandler {
	return &PetHandler{svc: svc, log: log}
}

type CreatePetRequest struct {
	Name      string `json:"name" binding:"required,notblank,max=100"`
	Species   string `json:"species" binding:"required,notblank,max=50"`
	Breed     string `json:"breed" binding:"max=100"`
	BirthDate string `json:"birth_date" binding:"omitempty,isodate"`
}

func (h *PetHandler) Create(c *gin.Context) {
	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.InvalidRequest(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), session.From(c), pet.CreateInput{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, "pet", p)
}

func (h *PetHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), session.From(c), c.Param("code"))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, "pet", p)
}

// UploadPhoto takes a multipart "photo" field with a JPEG or PNG.
func (h *PetHandler) UploadPhoto(c *gin.Context) {
	// room for the multipart envelope on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes+64<<10)

	fh, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.Write(c, http.StatusRequestEntityTooLarge, "photo_too_large", httperr.MessageFor("photo_too_large"))
			return
		}
		httperr.InvalidRequest(c, err)
		return
	}
	if fh.Size > maxPhotoBytes {
		httperr.Write(c, http.StatusRequestEntityTooLarge, "photo_too_large", httperr.MessageFor("photo_too_large"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.InvalidRequest(c, err)
		return
	}
	defer f.Close()

	p, err := h.svc.UploadPhoto(c.Request.Context(), session.From(c), c.Param("code"), f)
	if err != nil {
		if errors.Is(err, pet.ErrStorageDisabled) {
			httperr.Unavailable(c, "storage_unavailable", httperr.MessageFor("storage_unavailable"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, "pet", p)
}
