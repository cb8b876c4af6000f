package selection

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
	"github.com/SchoolMenu/nutrition-sona/internal/roster"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *orders.InMemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rosterRepo := roster.NewInMemoryRepository()
	rosterRepo.AddChild(roster.Child{ID: "42", Name: "Олена", Grade: "7", GuardianID: "g1",
		Allergies: menu.NewAllergenSet(menu.AllergenNuts)})
	rosterRepo.AddChild(roster.Child{ID: "77", Name: "Іван", Grade: "3", GuardianID: "g2"})

	menuRepo := menu.NewInMemoryRepository(
		dish(menu.SlotPrimary, "Borsch"),
		dish(menu.SlotPrimary, "Walnut Cake", menu.AllergenNuts),
		dish(menu.SlotSupplemental, "Compote"),
	)

	orderRepo := orders.NewInMemoryRepository()
	sessions := NewSessions(orderRepo, orders.NewGateway(orderRepo, nil), nil)
	h := NewHandler(sessions, roster.NewService(rosterRepo), menu.NewService(menuRepo, logger.Nop()))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-User"))
		c.Set("schoolCode", "S1")
		c.Next()
	})
	day := r.Group("/children/:id/days/:date")
	day.POST("/load", h.Load)
	day.GET("", h.Get)
	day.POST("/select", h.Select)
	day.POST("/save", h.Save)

	return r, orderRepo
}

func do(r *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_LoadSelectSave(t *testing.T) {
	r, repo := setupRouter(t)
	base := "/children/42/days/2025-09-05"

	w := do(r, http.MethodPost, base+"/load", "g1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, base+"/select", "g1", gin.H{"slot": "main_meal", "item_name": "Walnut Cake"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Accepted bool `json:"accepted"`
		Day      View `json:"day"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)

	w = do(r, http.MethodPost, base+"/select", "g1", gin.H{"slot": "meal1", "item_name": "Borsch"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.True(t, resp.Day.Unsaved)
	assert.Equal(t, StateDirty, resp.Day.State)

	w = do(r, http.MethodPost, base+"/save", "g1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.All(), 1)
}

func TestHandler_SaveFailureIsBadGateway(t *testing.T) {
	r, repo := setupRouter(t)
	base := "/children/42/days/2025-09-05"

	do(r, http.MethodPost, base+"/load", "g1", nil)
	do(r, http.MethodPost, base+"/select", "g1", gin.H{"slot": "afternoon_snack", "item_name": "Compote"})
	repo.FailDelete = true

	w := do(r, http.MethodPost, base+"/save", "g1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(r, http.MethodGet, base, "g1", nil)
	var v View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, StateFailed, v.State)
	assert.Equal(t, []string{"Compote"}, v.Selections[menu.SlotSupplemental])
}

func TestHandler_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		want   int
	}{
		{"no user", http.MethodPost, "/children/42/days/2025-09-05/load", "", nil, http.StatusUnauthorized},
		{"bad date", http.MethodPost, "/children/42/days/05-09-2025/load", "g1", nil, http.StatusBadRequest},
		{"foreign child", http.MethodPost, "/children/77/days/2025-09-05/load", "g1", nil, http.StatusForbidden},
		{"unknown child", http.MethodPost, "/children/99/days/2025-09-05/load", "g1", nil, http.StatusNotFound},
		{"not loaded", http.MethodPost, "/children/42/days/2025-09-05/save", "g1", nil, http.StatusConflict},
		{"bad slot", http.MethodPost, "/children/42/days/2025-09-05/select", "g1",
			gin.H{"slot": "dessert", "item_name": "Borsch"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandler_UnknownDish(t *testing.T) {
	r, _ := setupRouter(t)
	base := "/children/42/days/2025-09-05"

	do(r, http.MethodPost, base+"/load", "g1", nil)
	w := do(r, http.MethodPost, base+"/select", "g1", gin.H{"slot": "main_meal", "item_name": "Піца"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_SaveAfterSwitchingDay(t *testing.T) {
	r, repo := setupRouter(t)
	friday := "/children/42/days/2025-09-05"
	monday := "/children/42/days/2025-09-08"

	do(r, http.MethodPost, friday+"/load", "g1", nil)
	do(r, http.MethodPost, friday+"/select", "g1", gin.H{"slot": "main_meal", "item_name": "Borsch"})
	do(r, http.MethodPost, monday+"/load", "g1", nil)

	w := do(r, http.MethodPost, friday+"/save", "g1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, repo.All())
}

func TestHandler_RemovePickTakenOffMenu(t *testing.T) {
	r, repo := setupRouter(t)
	base := "/children/42/days/2025-09-05"

	require.NoError(t, repo.Insert(context.Background(), []orders.CommittedOrder{
		{ChildID: "42", Date: friday, Slot: menu.SlotSupplemental, ItemName: "Old Biscuit", SchoolCode: "S1"},
		{ChildID: "42", Date: friday, Slot: menu.SlotSupplemental, ItemName: "Compote", SchoolCode: "S1"},
	}))

	do(r, http.MethodPost, base+"/load", "g1", nil)
	w := do(r, http.MethodPost, base+"/select", "g1", gin.H{"slot": "afternoon_snack", "item_name": "Old Biscuit"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Accepted bool `json:"accepted"`
		Day      View `json:"day"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.Equal(t, []string{"Compote"}, resp.Day.Selections[menu.SlotSupplemental])

	w = do(r, http.MethodPost, base+"/select", "g1", gin.H{"slot": "afternoon_snack", "item_name": "Old Biscuit"})
	assert.Equal(t, http.StatusNotFound, w.Code, "cannot be re-added once removed")

	w = do(r, http.MethodPost, base+"/save", "g1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := repo.All()
	require.Len(t, rows, 1)
	assert.Equal(t, "Compote", rows[0].ItemName)
}
