package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

func sampleYacht() *model.Yacht {
	return &model.Yacht{
		Base:               model.Base{ID: "y1", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Name:               "Aurora",
		RegistrationNumber: "MT-1234",
		OwnerID:            "owner-1",
		Status:             model.YachtActive,
	}
}

func TestListYachts(t *testing.T) {
	env := newTestEnv(t)
	filter := store.YachtFilter{Status: model.YachtChartered, Search: "aur"}
	page := store.Page{Limit: 10, Offset: 20}
	env.yachts.On("ListYachts", mock.Anything, filter, page).
		Return(store.List[model.Yacht]{Items: []model.Yacht{*sampleYacht()}, Total: 21, Limit: 10, Offset: 20}, nil)

	rec := env.do(t, "GET", "/yachts?status=chartered&search=aur&limit=10&offset=20", "", "viewer", role.RoleViewer)
	requireStatus(t, rec, http.StatusOK)

	var body store.List[model.Yacht]
	decodeBody(t, rec, &body)
	assert.Equal(t, int64(21), body.Total)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, "Aurora", body.Items[0].Name)
	env.yachts.AssertExpectations(t)
}

func TestListYachtsMine(t *testing.T) {
	env := newTestEnv(t)
	env.yachts.On("ListYachts", mock.Anything, store.YachtFilter{OwnerID: "owner-1"}, store.Page{Limit: 50}).
		Return(store.List[model.Yacht]{}, nil)

	rec := env.do(t, "GET", "/yachts?mine=true", "", "owner-1", role.RoleUser)
	requireStatus(t, rec, http.StatusOK)
	env.yachts.AssertExpectations(t)
}

func TestListYachtsBadQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"limit=0", "limit=abc", "limit=101", "offset=-1", "status=sunk"} {
		rec := env.do(t, "GET", "/yachts?"+q, "", "viewer", role.RoleViewer)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	env.yachts.AssertNotCalled(t, "ListYachts")
}

func TestCreateYacht(t *testing.T) {
	t.Run("manager creates", func(t *testing.T) {
		env := newTestEnv(t)
		env.yachts.On("CreateYacht", mock.Anything, mock.MatchedBy(func(y *model.Yacht) bool {
			return y.ID == "" && y.Name == "Aurora" && y.OwnerID == "mgr" && y.Status == model.YachtActive
		})).Return(nil)

		rec := env.do(t, "POST", "/yachts", `{"id":"forged","name":" Aurora ","registrationNumber":"MT-1"}`, "mgr", role.RoleManager)
		requireStatus(t, rec, http.StatusCreated)

		var y model.Yacht
		decodeBody(t, rec, &y)
		assert.Equal(t, "Aurora", y.Name)
		assert.Equal(t, model.YachtActive, y.Status)
		env.yachts.AssertExpectations(t)
	})

	t.Run("user may not create", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/yachts", `{"name":"Aurora","registrationNumber":"MT-1"}`, "u", role.RoleUser)
		requireStatus(t, rec, http.StatusForbidden)
		env.yachts.AssertNotCalled(t, "CreateYacht")
	})

	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)
		for _, body := range []string{
			`{"name":"Aurora"}`,
			`{"name":"","registrationNumber":"MT-1"}`,
			`{"name":"Aurora","registrationNumber":"MT-1","status":"sunk"}`,
			`{"name":"Aurora","registrationNumber":"MT-1","draft":-1}`,
		} {
			rec := env.do(t, "POST", "/yachts", body, "mgr", role.RoleManager)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, "POST", "/yachts", `{"name":"Aurora","colour":"blue"}`, "mgr", role.RoleManager)
		requireStatus(t, rec, http.StatusBadRequest)

		rec = env.do(t, "POST", "/yachts", `{`, "mgr", role.RoleManager)
		requireStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		env := newTestEnv(t)
		env.yachts.On("CreateYacht", mock.Anything, mock.Anything).Return(store.ErrConflict)

		rec := env.do(t, "POST", "/yachts", `{"name":"Aurora","registrationNumber":"MT-1"}`, "mgr", role.RoleManager)
		requireStatus(t, rec, http.StatusConflict)
		code, msg := errorBody(t, rec)
		assert.Equal(t, "conflict", code)
		assert.Equal(t, "yacht already exists", msg)
	})
}

func TestUpdateYacht(t *testing.T) {
	env := newTestEnv(t)
	env.yachts.On("GetYacht", mock.Anything, "y1").Return(sampleYacht(), nil)
	env.yachts.On("UpdateYacht", mock.Anything, mock.MatchedBy(func(y *model.Yacht) bool {
		return y.ID == "y1" && y.Name == "Aurora" && y.Status == model.YachtMaintenance && y.HomePort == "Valletta"
	})).Return(nil)

	rec := env.do(t, "PUT", "/yachts/y1", `{"id":"other","status":"maintenance","homePort":"Valletta"}`, "mgr", role.RoleManager)
	requireStatus(t, rec, http.StatusOK)

	var y model.Yacht
	decodeBody(t, rec, &y)
	assert.Equal(t, "y1", y.ID)
	assert.Equal(t, "MT-1234", y.RegistrationNumber)
	env.yachts.AssertExpectations(t)
}

func TestUpdateKeepsOwnership(t *testing.T) {
	t.Run("yacht owner", func(t *testing.T) {
		env := newTestEnv(t)
		env.yachts.On("GetYacht", mock.Anything, "y1").Return(sampleYacht(), nil)
		env.yachts.On("UpdateYacht", mock.Anything, mock.MatchedBy(func(y *model.Yacht) bool {
			return y.OwnerID == "owner-1" && y.Name == "Borealis"
		})).Return(nil)

		rec := env.do(t, "PUT", "/yachts/y1", `{"ownerId":"mgr","name":"Borealis"}`, "mgr", role.RoleManager)
		requireStatus(t, rec, http.StatusOK)
		var y model.Yacht
		decodeBody(t, rec, &y)
		assert.Equal(t, "owner-1", y.OwnerID)
		env.yachts.AssertExpectations(t)
	})

	t.Run("equipment yacht", func(t *testing.T) {
		env := newTestEnv(t)
		env.equipment.On("GetEquipment", mock.Anything, "e1").
			Return(&model.Equipment{Base: model.Base{ID: "e1"}, YachtID: "y1", Name: "Generator"}, nil)
		env.equipment.On("UpdateEquipment", mock.Anything, mock.MatchedBy(func(e *model.Equipment) bool {
			return e.ID == "e1" && e.YachtID == "y1" && e.Name == "Watermaker"
		})).Return(nil)

		rec := env.do(t, "PUT", "/equipment/e1", `{"yachtId":"y2","name":"Watermaker"}`, "u", role.RoleUser)
		requireStatus(t, rec, http.StatusOK)
		env.equipment.AssertExpectations(t)
	})

	t.Run("inventory yacht", func(t *testing.T) {
		env := newTestEnv(t)
		env.inventory.On("GetInventoryItem", mock.Anything, "i1").
			Return(&model.InventoryItem{Base: model.Base{ID: "i1"}, YachtID: "y1", Name: "Fuel", Quantity: 10, Currency: "EUR"}, nil)
		env.inventory.On("UpdateInventoryItem", mock.Anything, mock.MatchedBy(func(i *model.InventoryItem) bool {
			return i.ID == "i1" && i.YachtID == "y1" && i.Quantity == 4
		})).Return(nil)

		rec := env.do(t, "PUT", "/inventory/i1", `{"yachtId":"y2","quantity":4}`, "u", role.RoleUser)
		requireStatus(t, rec, http.StatusOK)
		env.inventory.AssertExpectations(t)
	})
}

func TestGetAndDeleteYacht(t *testing.T) {
	env := newTestEnv(t)
	env.yachts.On("GetYacht", mock.Anything, "missing").Return(nil, store.ErrNotFound)
	env.yachts.On("DeleteYacht", mock.Anything, "y1").Return(nil)

	rec := env.do(t, "GET", "/yachts/missing", "", "viewer", role.RoleViewer)
	requireStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, "DELETE", "/yachts/y1", "", "mgr", role.RoleManager)
	requireStatus(t, rec, http.StatusForbidden)

	rec = env.do(t, "DELETE", "/yachts/y1", "", "adm", role.RoleAdmin)
	requireStatus(t, rec, http.StatusNoContent)
	env.yachts.AssertExpectations(t)
}

func TestCrewEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.yachts.On("GetYacht", mock.Anything, "y1").Return(sampleYacht(), nil)
	env.yachts.On("GetYacht", mock.Anything, "missing").Return(nil, store.ErrNotFound)
	env.crew.On("ListCrew", mock.Anything, "y1", store.Page{Limit: 50}).
		Return(store.List[model.CrewMember]{Items: []model.CrewMember{{Name: "Ana", YachtID: "y1"}}, Total: 1}, nil)

	rec := env.do(t, "GET", "/yachts/y1/crew", "", "u", role.RoleUser)
	requireStatus(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"name":"Ana"`)

	rec = env.do(t, "GET", "/yachts/missing/crew", "", "u", role.RoleUser)
	requireStatus(t, rec, http.StatusNotFound)

	// Viewers may see yachts but not crew.
	rec = env.do(t, "GET", "/yachts/y1/crew", "", "v", role.RoleViewer)
	requireStatus(t, rec, http.StatusForbidden)

	env.crew.On("CreateCrewMember", mock.Anything, mock.MatchedBy(func(c *model.CrewMember) bool {
		return c.YachtID == "y1" && c.Phone == "+35699123456" && c.Status == model.CrewActive
	})).Return(nil)
	rec = env.do(t, "POST", "/yachts/y1/crew", `{"name":"Ben","position":"Bosun","phone":"+356 9912-3456"}`, "m", role.RoleManager)
	requireStatus(t, rec, http.StatusCreated)

	rec = env.do(t, "POST", "/yachts/y1/crew", `{"name":"Ben","email":"not-an-email"}`, "m", role.RoleManager)
	requireStatus(t, rec, http.StatusUnprocessableEntity)

	env.crew.On("GetCrewMember", mock.Anything, "c1").Return(&model.CrewMember{Base: model.Base{ID: "c1"}, YachtID: "y1", Name: "Ana", Status: model.CrewActive}, nil)
	env.crew.On("UpdateCrewMember", mock.Anything, mock.MatchedBy(func(c *model.CrewMember) bool {
		return c.ID == "c1" && c.YachtID == "y1" && c.Status == model.CrewOnLeave
	})).Return(nil)
	rec = env.do(t, "PUT", "/crew/c1", `{"yachtId":"y2","status":"on_leave"}`, "m", role.RoleManager)
	requireStatus(t, rec, http.StatusOK)

	env.crew.On("DeleteCrewMember", mock.Anything, "c2").Return(store.ErrNotFound)
	rec = env.do(t, "DELETE", "/crew/c2", "", "m", role.RoleManager)
	requireStatus(t, rec, http.StatusNotFound)

	env.crew.AssertExpectations(t)
}

func TestEquipmentServiceDue(t *testing.T) {
	env := newTestEnv(t)
	var before time.Time
	env.equipment.On("ListServiceDue", mock.Anything, mock.AnythingOfType("time.Time"), store.Page{Limit: 50}).
		Run(func(args mock.Arguments) { before = args.Get(1).(time.Time) }).
		Return(store.List[model.Equipment]{Items: []model.Equipment{{Name: "Watermaker"}}, Total: 1}, nil)

	rec := env.do(t, "GET", "/equipment/due?days=7", "", "v", role.RoleViewer)
	requireStatus(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "Watermaker")
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), before, time.Minute)

	rec = env.do(t, "GET", "/equipment/due?days=400", "", "v", role.RoleViewer)
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestEquipmentValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/yachts/y1/equipment",
		`{"name":"Generator","lastServiceAt":"2024-05-01T00:00:00Z","nextServiceDue":"2024-04-01T00:00:00Z"}`, "u", role.RoleUser)
	requireStatus(t, rec, http.StatusUnprocessableEntity)

	env.equipment.On("CreateEquipment", mock.Anything, mock.Anything).Return(store.ErrNotFound)
	rec = env.do(t, "POST", "/yachts/missing/equipment", `{"name":"Generator"}`, "u", role.RoleUser)
	requireStatus(t, rec, http.StatusNotFound)
	_, msg := errorBody(t, rec)
	assert.Equal(t, "yacht not found", msg)
}

func TestInventoryLowStock(t *testing.T) {
	env := newTestEnv(t)
	env.inventory.On("ListLowStock", mock.Anything, "y1", store.Page{Limit: 50}).
		Return(store.List[model.InventoryItem]{
			Items: []model.InventoryItem{{Name: "Oil filter", Quantity: 1, MinQuantity: 2, UnitPrice: 12.5}},
			Total: 1,
			Limit: 50,
		}, nil)

	rec := env.do(t, "GET", "/inventory/low-stock?yacht=y1", "", "v", role.RoleViewer)
	requireStatus(t, rec, http.StatusOK)

	var body struct {
		Items []InventoryItemResponse `json:"items"`
		Total int64                   `json:"total"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, int64(1), body.Total)
	if assert.Len(t, body.Items, 1) {
		assert.True(t, body.Items[0].LowStock)
		assert.Equal(t, 12.5, body.Items[0].StockValue)
		assert.Equal(t, "Oil filter", body.Items[0].Name)
	}
}

func TestInventoryCreate(t *testing.T) {
	env := newTestEnv(t)
	env.inventory.On("CreateInventoryItem", mock.Anything, mock.MatchedBy(func(i *model.InventoryItem) bool {
		return i.YachtID == "y1" && i.Currency == "EUR"
	})).Return(nil)

	rec := env.do(t, "POST", "/yachts/y1/inventory", `{"name":"Fuel","quantity":100,"minQuantity":200,"currency":"eur"}`, "u", role.RoleUser)
	requireStatus(t, rec, http.StatusCreated)
	var item InventoryItemResponse
	decodeBody(t, rec, &item)
	assert.True(t, item.LowStock)

	rec = env.do(t, "POST", "/yachts/y1/inventory", `{"name":"Fuel","quantity":-1}`, "u", role.RoleUser)
	requireStatus(t, rec, http.StatusUnprocessableEntity)
}
