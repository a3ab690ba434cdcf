package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/entities"
	"github.com/mrlokans/langportal/internal/pagination"
)

const ErrMissingWordID = "Missing word_id"

// GroupStore defines database operations for groups and word membership.
type GroupStore interface {
	ListGroups(page, perPage int) (*pagination.Result[entities.Group], error)
	GetGroup(id uint) (*entities.Group, error)
	CreateGroup(name string) (*entities.Group, error)
	DeleteGroup(id uint) error
	ListGroupWords(id uint, page, perPage int) (*pagination.Result[entities.Word], error)
	AddWord(groupID, wordID uint) (*entities.Group, error)
	RemoveWord(groupID, wordID uint) (*entities.Group, error)
}

type GroupsController struct {
	store   GroupStore
	perPage int
}

func NewGroupsController(store GroupStore, perPage int) *GroupsController {
	return &GroupsController{store: store, perPage: perPage}
}

// GET /api/groups?page=
func (gc *GroupsController) ListGroups(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := gc.store.ListGroups(page, gc.perPage)
	if err != nil {
		respondStoreError(c, err, "list groups")
		return
	}
	respondPage(c, "groups", result)
}

// GET /api/groups/:id
func (gc *GroupsController) GetGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidGroupID)
	if !ok {
		return
	}

	group, err := gc.store.GetGroup(id)
	if err != nil {
		respondStoreError(c, err, "get group")
		return
	}
	c.JSON(http.StatusOK, group)
}

// POST /api/groups
func (gc *GroupsController) CreateGroup(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidJSON, "Request body must be a JSON object")
		return
	}

	group, err := gc.store.CreateGroup(req.Name)
	if err != nil {
		respondStoreError(c, err, "create group")
		return
	}
	respondSuccess(c, "Group created successfully", "group", group)
}

// DeleteGroup removes an empty group that no study session references.
// DELETE /api/groups/:id
func (gc *GroupsController) DeleteGroup(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidGroupID)
	if !ok {
		return
	}

	if err := gc.store.DeleteGroup(id); err != nil {
		respondStoreError(c, err, "delete group")
		return
	}
	respondSuccess(c, "Group deleted successfully", "", nil)
}

// GET /api/groups/:id/words?page=
func (gc *GroupsController) ListGroupWords(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidGroupID)
	if !ok {
		return
	}
	page, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := gc.store.ListGroupWords(id, page, gc.perPage)
	if err != nil {
		respondStoreError(c, err, "list group words")
		return
	}
	respondPage(c, "words", result)
}

// AddWord adds an existing word to the group.
// POST /api/groups/:id/words  {"word_id": 1}
func (gc *GroupsController) AddWord(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id", ErrInvalidGroupID)
	if !ok {
		return
	}
	fields, ok := decodeObject(c)
	if !ok {
		return
	}
	wordID, ok := fieldID(fields, "word_id")
	if !ok {
		respondBadRequest(c, ErrInvalidWordID, "word_id must be a positive integer")
		return
	}
	if wordID == nil {
		respondBadRequest(c, ErrMissingWordID, "")
		return
	}

	group, err := gc.store.AddWord(groupID, *wordID)
	if err != nil {
		respondStoreError(c, err, "add word to group")
		return
	}
	respondSuccess(c, "Word added to group", "group", group)
}

// DELETE /api/groups/:id/words/:word_id
func (gc *GroupsController) RemoveWord(c *gin.Context) {
	groupID, ok := parseIDParam(c, "id", ErrInvalidGroupID)
	if !ok {
		return
	}
	wordID, ok := parseIDParam(c, "word_id", ErrInvalidWordID)
	if !ok {
		return
	}

	group, err := gc.store.RemoveWord(groupID, wordID)
	if err != nil {
		respondStoreError(c, err, "remove word from group")
		return
	}
	respondSuccess(c, "Word removed from group", "group", group)
}
