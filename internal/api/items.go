package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/ricsouza/trecos/internal/model"
	"github.com/ricsouza/trecos/internal/publish"
	"github.com/ricsouza/trecos/internal/store"
)

// ItemsHandler handles the item listing, publishing and lifecycle endpoints.
type ItemsHandler struct {
	DB      *sql.DB
	Blobs   publish.BlobGateway
	PublishOpts publish.Options
}

type photoPayload struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

type publishItemRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Photo       *photoPayload `json:"photo,omitempty"`
}

type patchStatusRequest struct {
	Status  string `json:"status"`
	Confirm bool   `json:"confirm"`
}

// recordStore adapts the items store to the pipeline's RecordStore.
type recordStore struct {
	db *sql.DB
}

func (s recordStore) Create(ctx context.Context, item model.Item) (string, error) {
	return store.CreateItem(ctx, s.db, item)
}

// List handles GET /api/items. Soft-deleted items are never returned;
// active items sort before hidden ones, newest first within each group.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Publish handles POST /api/items by running the publish pipeline.
func (h *ItemsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req publishItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pipeline := publish.New(h.Blobs, recordStore{db: h.DB}, h.PublishOpts)
	pipeline.SetName(req.Name)
	pipeline.SetDescription(req.Description)
	pipeline.SetLocation(req.Location)
	if req.Photo != nil {
		pipeline.AttachPhoto(req.Photo.Data, req.Photo.Format)
	}

	var ownerID string
	if claims := GetClaims(r.Context()); claims != nil {
		ownerID = claims.UID()
	}

	err := pipeline.Submit(r.Context(), ownerID)
	switch {
	case errors.Is(err, publish.ErrInvalidForm):
		jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "invalid form",
			"fields": pipeline.FieldErrors(),
		})
		return
	case errors.Is(err, publish.ErrNoIdentity):
		jsonError(w, http.StatusUnauthorized, "sign in to publish items")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to publish item")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]string{
		"id":     pipeline.CreatedID(),
		"status": model.StatusOn,
	})
}

// Get handles GET /api/items/{id}. A soft-deleted item reads as not found
// unless an admin asks for it explicitly.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if item.Status == model.StatusDel && !h.includeDeleted(r) {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

func (h *ItemsHandler) includeDeleted(r *http.Request) bool {
	if r.URL.Query().Get("include_deleted") != "1" {
		return false
	}
	claims := GetClaims(r.Context())
	return claims != nil && model.RoleAtLeast(claims.Role, model.RoleAdmin)
}

// PatchStatus handles PATCH /api/items/{id}/status. Any-to-any transitions
// are allowed, but retiring an item requires an explicit confirmation flag.
func (h *ItemsHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req patchStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !model.ValidStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.Status == model.StatusDel && !req.Confirm {
		jsonError(w, http.StatusBadRequest, "deleting an item requires confirmation")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.PatchItemStatus(r.Context(), h.DB, id, req.Status); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	if req.Status == model.StatusDel {
		// The caller should leave the detail view; the item is no longer
		// reachable through normal browsing.
		jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted", "status": req.Status})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "status updated", "status": req.Status})
}
