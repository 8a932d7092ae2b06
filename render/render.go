package render

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Renderer produces a response body from a template name and a mapping of
// named values. Controllers only ever supply the mapping, never markup.
type Renderer interface {
	Render(ctx *gin.Context, status int, name string, data gin.H)
}

// HTML renders through gin's template engine. The router must have loaded
// templates (LoadHTMLGlob) before this renderer is used.
type HTML struct{}

// Render writes the named template with the given values.
func (HTML) Render(ctx *gin.Context, status int, name string, data gin.H) {
	ctx.HTML(status, name, data)
}

// JSON renders the template name and values as a JSON document. It serves
// API-style deployments and tests, where no template set is configured.
type JSON struct{}

// Render writes the mapping under the template name it would have filled.
func (JSON) Render(ctx *gin.Context, status int, name string, data gin.H) {
	ctx.JSON(status, gin.H{"template": name, "data": data})
}

var _ Renderer = HTML{}
var _ Renderer = JSON{}

// NotFound writes the 404-equivalent outcome for lookup misses.
func NotFound(ctx *gin.Context) {
	ctx.String(http.StatusNotFound, "404 not found")
	ctx.Abort()
}
