package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"cleancity/api"
)

// QueryDocuments lists a collection ordered by one timestamp field.
func (h *Handlers) QueryDocuments(c *gin.Context) {
	collection := c.Param("collection")
	orderBy := c.DefaultQuery("order_by", api.FieldCreatedAt)
	descending := c.DefaultQuery("dir", "desc") == "desc"

	records, err := h.svc.QueryDocuments(c.Request.Context(), collection, orderBy, descending)
	if err != nil {
		log.Errorf("Query of %s failed: %v", collection, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to query collection"})
		return
	}
	if records == nil {
		records = []map[string]any{}
	}

	c.JSON(http.StatusOK, api.QueryResponse{Records: records})
}

// InsertDocument stores a new record and returns the assigned id.
func (h *Handlers) InsertDocument(c *gin.Context) {
	collection := c.Param("collection")

	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	id, err := h.svc.InsertDocument(c.Request.Context(), collection, doc)
	if err != nil {
		log.Errorf("Insert into %s failed: %v", collection, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to insert record"})
		return
	}

	c.JSON(http.StatusOK, api.InsertResponse{ID: id})
}

// MergeDocument merges a partial record, creating the document if missing.
func (h *Handlers) MergeDocument(c *gin.Context) {
	collection := c.Param("collection")
	id := c.Param("id")

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.svc.MergeDocument(c.Request.Context(), collection, id, patch); err != nil {
		log.Errorf("Merge into %s/%s failed: %v", collection, id, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to merge record"})
		return
	}

	c.Status(http.StatusOK)
}
