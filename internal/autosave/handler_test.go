package autosave

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetfinder-my/platform/internal/directory"
)

func draftServer(t *testing.T) (*httptest.Server, *directory.InMemoryRepository, uuid.UUID) {
	t.Helper()
	repo := directory.NewInMemoryRepository()
	seeded, err := repo.Insert(context.Background(), validClinic())
	require.NoError(t, err)

	h := NewHandler(repo, Config{DisableAutosave: true}, nil, nil)
	r := chi.NewRouter()
	r.Mount("/admin/clinics", h.Routes())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo, seeded.ID
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, sessionView) {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var v sessionView
	if resp.Header.Get("Content-Type") == "application/json" {
		_ = json.NewDecoder(resp.Body).Decode(&v)
	}
	return resp, v
}

func TestDraftLifecycle(t *testing.T) {
	srv, repo, id := draftServer(t)
	base := srv.URL + "/admin/clinics/" + id.String() + "/draft"

	resp, v := doJSON(t, http.MethodPost, base, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, StateClean, v.State)
	assert.False(t, v.Dirty)

	resp, v = doJSON(t, http.MethodPatch, base, `{"phone":"+60 3-7956 2233"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StateDirty, v.State)
	assert.Equal(t, "+60 3-7956 2233", v.Draft.Phone)

	resp, v = doJSON(t, http.MethodPost, base+"/save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// The persistence goroutine may or may not have finished by the time
	// the response is rendered.
	assert.Contains(t, []State{StateSaving, StateSaved}, v.State)

	assert.Eventually(t, func() bool {
		got, err := repo.SelectByID(context.Background(), id)
		return err == nil && got.Phone == "+60 3-7956 2233"
	}, time.Second, time.Millisecond)
}

func TestDraftOpenUnknownClinic(t *testing.T) {
	srv, _, _ := draftServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/admin/clinics/"+uuid.NewString()+"/draft", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftEditWithoutSession(t *testing.T) {
	srv, _, id := draftServer(t)

	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/admin/clinics/"+id.String()+"/draft", `{"city":"Subang Jaya"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftSaveBlockedByValidation(t *testing.T) {
	srv, repo, id := draftServer(t)
	base := srv.URL + "/admin/clinics/" + id.String() + "/draft"

	resp, _ := doJSON(t, http.MethodPost, base, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, base, `{"city":""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, v := doJSON(t, http.MethodPost, base+"/save", "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NotEmpty(t, v.Errors)
	assert.Equal(t, "city", v.Errors[0].Field)

	got, err := repo.SelectByID(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, got.City)
}

func TestDraftReset(t *testing.T) {
	srv, _, id := draftServer(t)
	base := srv.URL + "/admin/clinics/" + id.String() + "/draft"

	_, opened := doJSON(t, http.MethodPost, base, "")
	original := opened.Draft.Phone

	doJSON(t, http.MethodPatch, base, `{"phone":"+60 12-000 0000"}`)
	resp, v := doJSON(t, http.MethodPost, base+"/reset", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StateClean, v.State)
	assert.Equal(t, original, v.Draft.Phone)
}

func TestDraftClose(t *testing.T) {
	srv, _, id := draftServer(t)
	base := srv.URL + "/admin/clinics/" + id.String() + "/draft"

	doJSON(t, http.MethodPost, base, "")
	resp, _ := doJSON(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftReopenDiscardsPrevious(t *testing.T) {
	srv, _, id := draftServer(t)
	base := srv.URL + "/admin/clinics/" + id.String() + "/draft"

	doJSON(t, http.MethodPost, base, "")
	doJSON(t, http.MethodPatch, base, `{"name":"Scratch Name"}`)

	resp, v := doJSON(t, http.MethodPost, base, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, StateClean, v.State)
	assert.NotEqual(t, "Scratch Name", v.Draft.Name)
}
