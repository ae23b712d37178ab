package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the UI and the transcript endpoint.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/", Index)
	r.GET("/getscript", h.GetScript)
}
