package handler

import "net/http"

// RegisterRoutes mounts every endpoint on mux. Literal segments take
// precedence over {filename}, so no document can shadow /new or /health.
func RegisterRoutes(mux *http.ServeMux, docs *DocumentHandler, users *AuthHandler, imports *ImportHandler) {
	mux.HandleFunc("GET /health", docs.HealthCheck)

	mux.HandleFunc("GET /{$}", docs.ListDocuments)
	mux.HandleFunc("GET /{filename}", docs.ViewDocument)
	mux.HandleFunc("GET /{filename}/edit", docs.GetDocument)
	mux.HandleFunc("GET /{filename}/history", docs.ListVersions)
	mux.HandleFunc("GET /{filename}/history/{snapshot}", docs.ViewVersion)

	mux.HandleFunc("POST /new", docs.CreateDocument)
	mux.HandleFunc("POST /upload", docs.UploadImage)
	mux.HandleFunc("POST /import", imports.Import)
	mux.HandleFunc("POST /{filename}", docs.UpdateDocument)
	mux.HandleFunc("POST /{filename}/delete", docs.DeleteDocument)
	mux.HandleFunc("POST /{filename}/duplicate", docs.DuplicateDocument)

	mux.HandleFunc("POST /users/signin", users.SignIn)
	mux.HandleFunc("POST /users/signout", users.SignOut)
	mux.HandleFunc("POST /users/signup", users.SignUp)
}
