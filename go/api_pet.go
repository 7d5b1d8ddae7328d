package petguardserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	pethttpmapper "github.com/Apurer/petguard-api/internal/domains/pets/adapters/http/mapper"
	petstypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	petsports "github.com/Apurer/petguard-api/internal/domains/pets/ports"
)

// IdempotencyKeyHeader lets clients retry createPet safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// PetAPI wires HTTP transport with the pets bounded context service and workflows.
type PetAPI struct {
	service       petsports.Service
	workflows     petsports.WorkflowOrchestrator
	maxPhotoBytes int64
}

// NewPetAPI creates a PetAPI backed by the provided service. When workflows is nil, creation
// calls the service directly. maxPhotoBytes bounds how much of an uploaded file is read; zero
// reads it whole and leaves the limit to the photo store.
func NewPetAPI(service petsports.Service, workflows petsports.WorkflowOrchestrator, maxPhotoBytes int64) PetAPI {
	return PetAPI{service: service, workflows: workflows, maxPhotoBytes: maxPhotoBytes}
}

// Post /v1/pets
// Creates a pet held by the caller. Accepts JSON, or multipart with a "data" JSON part and a "photo" file.
func (api *PetAPI) CreatePet(c *gin.Context) {
	var payload pethttpmapper.PetInput
	photo, err := api.readPayload(c, &payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := petstypes.CreatePetInput{
		Caller:         callerFrom(c),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
		PetFields:      pethttpmapper.ToPetFields(payload),
		Photo:          photo,
	}
	saved, err := api.createPet(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(saved))
}

func (api *PetAPI) createPet(ctx context.Context, input petstypes.CreatePetInput) (*petstypes.PetProjection, error) {
	if api.workflows != nil {
		return api.workflows.CreatePet(ctx, input)
	}
	return api.service.CreatePet(ctx, input)
}

// Patch /v1/pets/:petId
// Updates the present fields of a pet held by the caller.
func (api *PetAPI) UpdatePet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	var patch pethttpmapper.PetPatch
	photo, err := api.readPayload(c, &patch)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input, err := pethttpmapper.ToUpdateInput(id, patch)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input.Caller = callerFrom(c)
	input.Photo = photo
	updated, err := api.service.UpdatePet(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

// Delete /v1/pets/:petId
// Deletes a pet held by the caller together with its dependents.
func (api *PetAPI) DeletePet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	result, err := api.service.DeletePet(c.Request.Context(), petstypes.DeletePetInput{Caller: callerFrom(c), ID: id})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get /v1/principals/:identify/pets/:petId
// Loads a pet held by the principal behind an email or username.
func (api *PetAPI) FetchPet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	pet, err := api.service.FetchPet(c.Request.Context(), petstypes.FetchPetInput{
		Caller:   callerFrom(c),
		Identity: strings.TrimSpace(c.Param("identify")),
		PetID:    id,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(pet))
}

// Get /v1/pets
// Lists adoptable pets, or the pets held by ?identify=, filtered then paginated.
func (api *PetAPI) ListPets(c *gin.Context) {
	input := petstypes.ListPetsInput{
		Identity: strings.TrimSpace(c.Query("identify")),
		Search:   c.Query("search"),
		Kind:     c.Query("kind"),
	}
	var err error
	if input.IsAdoption, err = queryBool(c, "is_adoption"); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if raw, ok := c.GetQuery("is_adopted"); ok && strings.TrimSpace(raw) != "" {
		adopted, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Errorf("is_adopted: %w", err))
			return
		}
		input.IsAdopted = &adopted
	}
	if input.Skip, err = queryInt(c, "skip"); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if input.First, err = queryInt(c, "first"); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.ListPets(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjectionList(result))
}

// readPayload decodes the JSON body into dst. Multipart requests carry the JSON in the "data"
// part and an optional "photo" file, which is returned as an upload.
func (api *PetAPI) readPayload(c *gin.Context, dst any) (*petstypes.PhotoUpload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if data := c.PostForm("data"); strings.TrimSpace(data) != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}
	}
	header, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("photo: %w", err)
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	defer file.Close()
	var reader io.Reader = file
	if api.maxPhotoBytes > 0 {
		// One byte past the limit is enough for the store to reject the upload.
		reader = io.LimitReader(file, api.maxPhotoBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	return &petstypes.PhotoUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%s: %w", name, err))
		return 0, false
	}
	return id, true
}

func queryBool(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}
