package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = ""

	// APIPath is the prefix of the json api.
	APIPath = "/api"

	// ErrNilRCSMsg is used if router, cfg or store is nil.
	ErrNilRCSMsg = "router, cfg or store is nil"
)
