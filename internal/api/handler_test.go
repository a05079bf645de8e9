package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designer-dashboard-backend/config"
	"designer-dashboard-backend/internal/dal"
	"designer-dashboard-backend/internal/model"
	"designer-dashboard-backend/internal/reactive"
	"designer-dashboard-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router  *gin.Engine
	svc     *dal.Service
	objects *reactive.ObjectStore
}

func setupRouter(t *testing.T, st store.Store) *testAPI {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	svc := dal.New(context.Background(), st)
	designers := reactive.NewDesignerStore(svc)
	objects := reactive.NewObjectStore(svc)

	cfg := config.Default().Server
	cfg.RateLimitPerSec = 1000
	cfg.RateLimitBurst = 1000
	return &testAPI{
		router:  NewRouter(cfg, NewHandler(designers, objects, nil), nil, nil),
		svc:     svc,
		objects: objects,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) createDesigner(t *testing.T, name string) model.Designer {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/designers", gin.H{"fullName": name, "workingHours": 8})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.Designer](t, w)
}

func (a *testAPI) createObject(t *testing.T, designerID string) model.SceneObject {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/objects", gin.H{"name": "Cube1", "designerId": designerID, "size": "normal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[model.SceneObject](t, w)
}

func (a *testAPI) designer(t *testing.T, id string) model.Designer {
	t.Helper()
	w := a.do(t, http.MethodGet, "/api/designers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, d := range decode[[]model.Designer](t, w) {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("designer %s not listed", id)
	return model.Designer{}
}

func TestHealth(t *testing.T) {
	a := setupRouter(t, nil)
	w := a.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListEmpty(t *testing.T) {
	a := setupRouter(t, nil)

	w := a.do(t, http.MethodGet, "/api/designers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/objects", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateDesigner(t *testing.T) {
	a := setupRouter(t, nil)

	d := a.createDesigner(t, "  Dave  ")
	assert.Equal(t, "Dave", d.FullName)
	assert.Equal(t, 8, d.WorkingHours)
	assert.Zero(t, d.AttachedObjectsCount)
	assert.NotEmpty(t, d.ID)

	t.Run("validation", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/api/designers", gin.H{"fullName": "D", "workingHours": 30})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"errors":{
			"fullName":"Name must be at least 2 characters",
			"workingHours":"Working hours must be between 1 and 24"}}`, w.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		w := a.do(t, http.MethodPost, "/api/designers", "{")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
	})
}

func TestScenarioA_CountVisibleOverHTTP(t *testing.T) {
	a := setupRouter(t, nil)

	dave := a.createDesigner(t, "Dave")
	a.createObject(t, dave.ID)
	assert.Equal(t, 1, a.designer(t, dave.ID).AttachedObjectsCount)
}

func TestScenarioB_Reassign(t *testing.T) {
	a := setupRouter(t, nil)

	d1 := a.createDesigner(t, "D1")
	d2 := a.createDesigner(t, "D2")
	obj := a.createObject(t, d1.ID)
	assert.Equal(t, 1, a.designer(t, d1.ID).AttachedObjectsCount)

	w := a.do(t, http.MethodPatch, "/api/objects/"+obj.ID, gin.H{"designerId": d2.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[model.SceneObject](t, w)
	assert.Equal(t, d2.ID, updated.DesignerID)
	assert.Equal(t, obj.Name, updated.Name)

	assert.Equal(t, 0, a.designer(t, d1.ID).AttachedObjectsCount)
	assert.Equal(t, 1, a.designer(t, d2.ID).AttachedObjectsCount)
}

func TestScenarioC_UpdateMissing(t *testing.T) {
	a := setupRouter(t, nil)

	w := a.do(t, http.MethodPatch, "/api/objects/nope", gin.H{"name": "Cube2"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Object not found"}`, w.Body.String())
}

func TestScenarioD_DeleteObject(t *testing.T) {
	a := setupRouter(t, nil)

	d := a.createDesigner(t, "Dave")
	obj := a.createObject(t, d.ID)
	assert.Equal(t, 1, a.designer(t, d.ID).AttachedObjectsCount)

	w := a.do(t, http.MethodDelete, "/api/objects/"+obj.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/objects", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, 0, a.designer(t, d.ID).AttachedObjectsCount)

	// Deleting again is a no-op.
	w = a.do(t, http.MethodDelete, "/api/objects/"+obj.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateObject_PartialAndValidation(t *testing.T) {
	a := setupRouter(t, nil)

	d := a.createDesigner(t, "Dave")
	obj := a.createObject(t, d.ID)

	w := a.do(t, http.MethodPatch, "/api/objects/"+obj.ID, gin.H{"size": "large"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[model.SceneObject](t, w)
	assert.Equal(t, model.SizeLarge, updated.Size)
	assert.Equal(t, obj.Name, updated.Name)
	assert.Equal(t, obj.Color, updated.Color)
	assert.Equal(t, obj.DesignerID, updated.DesignerID)
	assert.Equal(t, obj.Position, updated.Position)

	w = a.do(t, http.MethodPatch, "/api/objects/"+obj.ID, gin.H{"color": "purple"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"color"`)
}

func TestCreateObject_Validation(t *testing.T) {
	a := setupRouter(t, nil)

	w := a.do(t, http.MethodPost, "/api/objects", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode[map[string]map[string]string](t, w)["errors"]
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "designerId")
}

func TestDeleteDesigner_LeavesDanglingObjects(t *testing.T) {
	a := setupRouter(t, nil)

	d := a.createDesigner(t, "Dave")
	obj := a.createObject(t, d.ID)

	w := a.do(t, http.MethodDelete, "/api/designers/"+d.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(t, http.MethodDelete, "/api/designers/"+d.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/objects", nil)
	objects := decode[[]model.SceneObject](t, w)
	require.Len(t, objects, 1)
	assert.Equal(t, obj.ID, objects[0].ID)
	assert.Equal(t, d.ID, objects[0].DesignerID)
}

func TestGetCacheSeesOutOfBandWrites(t *testing.T) {
	a := setupRouter(t, nil)

	d := a.createDesigner(t, "Dave")
	obj := a.createObject(t, d.ID)
	w := a.do(t, http.MethodGet, "/api/objects", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A drag moves and commits through the store, not through HTTP.
	require.True(t, a.objects.Move(obj.ID, model.Position{4, 0.35, 4}))

	w = a.do(t, http.MethodGet, "/api/objects", nil)
	assert.Empty(t, w.Header().Get("X-Cache"))
}

// brokenStore fails every write.
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) Save(context.Context, map[string][]byte) error {
	return errors.New("disk full")
}

func TestPersistFailureIs500(t *testing.T) {
	a := setupRouter(t, brokenStore{store.NewMemoryStore()})

	w := a.do(t, http.MethodPost, "/api/designers", gin.H{"fullName": "Dave", "workingHours": 8})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create designer"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/designers", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}
