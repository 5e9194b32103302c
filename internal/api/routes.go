package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"github.com/careerkb/profile-agent/internal/ingestion"
	"github.com/careerkb/profile-agent/internal/middleware"
	"github.com/careerkb/profile-agent/internal/pipeline"
	"github.com/careerkb/profile-agent/internal/store"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/chat").
			To(handler.Chat).
			Doc("Answer a question from the knowledge base").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(ChatRequest{}).
			Writes(pipeline.Result{}).
			Returns(200, "OK", pipeline.Result{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/ingest").
			To(handler.Ingest).
			Doc("Ingest a document into the knowledge base").
			Metadata(restfulspec.KeyOpenAPITags, []string{"documents"}).
			Reads(IngestRequest{}).
			Writes(ingestion.Result{}).
			Returns(201, "Created", ingestion.Result{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/documents").
			To(handler.ListDocuments).
			Doc("List indexed documents").
			Metadata(restfulspec.KeyOpenAPITags, []string{"documents"}).
			Writes([]store.Document{}).
			Returns(200, "OK", []store.Document{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.DELETE("/documents/{id}").
			To(handler.DeleteDocument).
			Doc("Delete a document and its indexed chunks").
			Metadata(restfulspec.KeyOpenAPITags, []string{"documents"}).
			Param(ws.PathParameter("id", "document identifier").DataType("string")).
			Returns(200, "OK", map[string]string{}).
			Returns(404, "Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/admin/cache/clear").
			To(handler.ClearCache).
			Doc("Clear the answer cache").
			Metadata(restfulspec.KeyOpenAPITags, []string{"admin"}).
			Returns(200, "OK", map[string]string{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
