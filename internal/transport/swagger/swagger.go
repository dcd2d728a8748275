package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocURL is where the router serves the embedded OpenAPI document.
const DocURL = "/openapi.yml"

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocURL),
		httpSwagger.DocExpansion("list"),
	)
}
