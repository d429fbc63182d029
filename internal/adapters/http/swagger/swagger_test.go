package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a swagger handler", t, func() {
		ctx := context.Background()
		router := mux.NewRouter()

		convey.Convey("When registering the swagger handler", func() {
			Register(ctx, router)

			convey.Convey("Then it should handle /openapi.yaml route", func() {
				req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
				convey.So(w.Body.Len(), convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And it should handle /api-docs route", func() {
				req := httptest.NewRequest(http.MethodGet, "/api-docs", http.NoBody)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
				convey.So(w.Body.String(), convey.ShouldContainSubstring, redocURL)
			})
		})

		convey.Convey("When registering on a nil router", func() {
			convey.So(func() { Register(ctx, nil) }, convey.ShouldPanic)
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		var doc struct {
			OpenAPI string                    `yaml:"openapi"`
			Paths   map[string]map[string]any `yaml:"paths"`
		}
		err := yaml.Unmarshal(OpenAPI, &doc)

		convey.Convey("Then it parses and documents every route", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			for path, method := range map[string]string{
				"/healthz":                       "get",
				"/stats":                         "get",
				"/matches":                       "post",
				"/matches/simulate":              "post",
				"/matches/{id}":                  "get",
				"/standings":                     "get",
				"/standings/undo":                "post",
				"/timeline":                      "get",
				"/timeline/advance":              "post",
				"/timeline/moments":              "get",
				"/timeline/moments/{id}":         "delete",
				"/timeline/moments/{id}/resolve": "post",
				"/ws/matches":                    "get",
			} {
				convey.So(doc.Paths, convey.ShouldContainKey, path)
				convey.So(doc.Paths[path], convey.ShouldContainKey, method)
			}
		})
	})
}
