package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/langportal/internal/database/words"
	"github.com/mrlokans/langportal/internal/entities"
	"github.com/mrlokans/langportal/internal/pagination"
)

// WordStore defines database operations for the vocabulary catalogue.
type WordStore interface {
	ListWords(filter words.Filter, page, perPage int) (*pagination.Result[words.Item], error)
	SearchWords(q string, page, perPage int) (*pagination.Result[words.Item], error)
	GetWord(id uint) (*words.Detail, error)
	CreateWord(in words.Input) (*entities.Word, error)
	UpdateWord(id uint, in words.Input) (*entities.Word, error)
	DeleteWord(id uint) error
}

type WordsController struct {
	store   WordStore
	perPage int
}

func NewWordsController(store WordStore, perPage int) *WordsController {
	return &WordsController{store: store, perPage: perPage}
}

// ListWords returns a page of words, optionally filtered by group and text.
// GET /api/words?page=&group_id=&q=
func (wc *WordsController) ListWords(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	groupID, ok := parseOptionalQueryID(c, "group_id", ErrInvalidGroupID)
	if !ok {
		return
	}

	result, err := wc.store.ListWords(words.Filter{GroupID: groupID, Query: c.Query("q")}, page, wc.perPage)
	if err != nil {
		respondStoreError(c, err, "list words")
		return
	}
	respondPage(c, "words", result)
}

// SearchWords matches q against the Spanish and English text.
// GET /api/words/search?q=&page=
func (wc *WordsController) SearchWords(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := wc.store.SearchWords(c.Query("q"), page, wc.perPage)
	if err != nil {
		respondStoreError(c, err, "search words")
		return
	}
	respondPage(c, "words", result)
}

// GET /api/words/:id
func (wc *WordsController) GetWord(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidWordID)
	if !ok {
		return
	}

	word, err := wc.store.GetWord(id)
	if err != nil {
		respondStoreError(c, err, "get word")
		return
	}
	c.JSON(http.StatusOK, word)
}

// POST /api/words
func (wc *WordsController) CreateWord(c *gin.Context) {
	var in words.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, ErrInvalidJSON, "Request body must be a JSON object")
		return
	}

	word, err := wc.store.CreateWord(in)
	if err != nil {
		respondStoreError(c, err, "create word")
		return
	}
	respondSuccess(c, "Word created successfully", "word", word)
}

// UpdateWord applies a partial update; omitted fields keep their value.
// PUT /api/words/:id
func (wc *WordsController) UpdateWord(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidWordID)
	if !ok {
		return
	}

	var in words.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, ErrInvalidJSON, "Request body must be a JSON object")
		return
	}

	word, err := wc.store.UpdateWord(id, in)
	if err != nil {
		respondStoreError(c, err, "update word")
		return
	}
	respondSuccess(c, "Word updated successfully", "word", word)
}

// DeleteWord removes a word and its group memberships. Words with review
// history cannot be deleted.
// DELETE /api/words/:id
func (wc *WordsController) DeleteWord(c *gin.Context) {
	id, ok := parseIDParam(c, "id", ErrInvalidWordID)
	if !ok {
		return
	}

	if err := wc.store.DeleteWord(id); err != nil {
		respondStoreError(c, err, "delete word")
		return
	}
	respondSuccess(c, "Word deleted successfully", "", nil)
}
