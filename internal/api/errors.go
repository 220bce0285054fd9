package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrResponse is the JSON body of every failed request.
type ErrResponse struct {
	HTTPStatusCode int    `json:"-"`
	Valid          *bool  `json:"valid,omitempty"`
	Error          string `json:"error"`
}

// Render implements render.Renderer.
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errBadRequest(err error) render.Renderer {
	return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Error: err.Error()}
}

func errRejected(err error) render.Renderer {
	valid := false
	return &ErrResponse{HTTPStatusCode: http.StatusForbidden, Valid: &valid, Error: err.Error()}
}

// errInternal hides the cause; it is logged instead.
func errInternal() render.Renderer {
	return &ErrResponse{HTTPStatusCode: http.StatusInternalServerError, Error: http.StatusText(http.StatusInternalServerError)}
}
