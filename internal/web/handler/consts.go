package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of the JSON API.
	APIPath = RootPath + "api"

	// AdminAPIPath is the prefix of the admin JSON API.
	AdminAPIPath = APIPath + "/admin"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25

	// MaxPageSize caps the pageSize query parameter.
	MaxPageSize = 100

	// MaxPage caps the page query parameter.
	MaxPage = 100000
)
