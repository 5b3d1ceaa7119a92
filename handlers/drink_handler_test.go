package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

func newDrinkHandler() (*DrinkHandler, *MockDrinkRepository) {
	repo := new(MockDrinkRepository)
	return NewDrinkHandler(repo, &inlineTx{}, zap.NewNop()), repo
}

func matchaShake() *models.Drink {
	return &models.Drink{ID: 1, Title: "matcha shake", Recipe: models.Recipe{
		{Name: "milk", Color: "grey", Parts: 1},
		{Name: "matcha", Color: "green", Parts: 3},
	}}
}

func TestDrinkHandler_List(t *testing.T) {
	t.Run("short representation", func(t *testing.T) {
		h, repo := newDrinkHandler()
		repo.On("ListAll", mock.Anything).Return([]*models.Drink{matchaShake()}, nil)

		w := httptest.NewRecorder()
		h.List(w, newRequest(http.MethodGet, "/drinks", "", ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"success":true,"drinks":[{"id":1,"title":"matcha shake","recipe":[{"color":"grey","parts":1},{"color":"green","parts":3}]}]}`,
			w.Body.String())
	})

	t.Run("no drinks", func(t *testing.T) {
		h, repo := newDrinkHandler()
		repo.On("ListAll", mock.Anything).Return(nil, nil)

		w := httptest.NewRecorder()
		h.List(w, newRequest(http.MethodGet, "/drinks", "", ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "no drinks found in database.", decodeResponse(t, w)["message"])
	})
}

func TestDrinkHandler_Detail(t *testing.T) {
	h, repo := newDrinkHandler()
	repo.On("ListAll", mock.Anything).Return([]*models.Drink{matchaShake()}, nil)

	w := httptest.NewRecorder()
	h.Detail(w, newRequest(http.MethodGet, "/drinks-detail", "", ""), director)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"matcha"`)
}

func TestDrinkHandler_Create(t *testing.T) {
	t.Run("single ingredient object", func(t *testing.T) {
		h, repo := newDrinkHandler()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(d *models.Drink) bool {
			return d.Title == "water" && len(d.Recipe) == 1 && d.Recipe[0].Color == "blue"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Drink).ID = 3
		}).Return(nil)

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/drinks", `{"title":"water","recipe":{"name":"water","color":"blue","parts":1}}`, ""), director)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"success":true,"drinks":[{"id":3,"title":"water","recipe":[{"name":"water","color":"blue","parts":1}]}]}`,
			w.Body.String())
	})

	t.Run("duplicate title", func(t *testing.T) {
		h, repo := newDrinkHandler()
		repo.On("Create", mock.Anything, mock.Anything).
			Return(fmt.Errorf("create drink: %w", repositories.ErrConflict))

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/drinks", `{"title":"water","recipe":[{"name":"water","color":"blue","parts":1}]}`, ""), director)

		body := decodeResponse(t, w)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, float64(422), body["error"])
		assert.Equal(t, "unprocessable", body["code"])
	})

	t.Run("ingredient missing color", func(t *testing.T) {
		h, repo := newDrinkHandler()

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/drinks", `{"title":"water","recipe":[{"name":"water","parts":1}]}`, ""), director)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("empty body", func(t *testing.T) {
		h, _ := newDrinkHandler()

		w := httptest.NewRecorder()
		h.Create(w, newRequest(http.MethodPost, "/drinks", "", ""), director)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDrinkHandler_Update(t *testing.T) {
	t.Run("title only", func(t *testing.T) {
		h, repo := newDrinkHandler()
		repo.On("GetForUpdate", mock.Anything, int64(1)).Return(matchaShake(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(d *models.Drink) bool {
			return d.Title == "matcha latte" && len(d.Recipe) == 2
		})).Return(nil)

		w := httptest.NewRecorder()
		h.Update(w, newRequest(http.MethodPatch, "/drinks/1", `{"title":"matcha latte"}`, "1"), director)

		assert.Equal(t, http.StatusOK, w.Code)
		drinks := decodeResponse(t, w)["drinks"].([]interface{})
		assert.Len(t, drinks, 1)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		h, repo := newDrinkHandler()
		repo.On("GetForUpdate", mock.Anything, int64(9)).Return(nil, repositories.ErrNotFound)

		w := httptest.NewRecorder()
		h.Update(w, newRequest(http.MethodPatch, "/drinks/9", `{"title":"x"}`, "9"), director)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty recipe", func(t *testing.T) {
		h, repo := newDrinkHandler()

		w := httptest.NewRecorder()
		h.Update(w, newRequest(http.MethodPatch, "/drinks/1", `{"recipe":[]}`, "1"), director)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	})
}

func TestDrinkHandler_Delete(t *testing.T) {
	h, repo := newDrinkHandler()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	w := httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/drinks/1", "", "1"), director)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"delete":1}`, w.Body.String())
}
