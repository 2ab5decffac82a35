package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the link, dashboard, and tracker routes.
// The redirect route is registered last so fixed paths win over the slug
// wildcard.
func RegisterRoutes(api huma.API, links *LinkHandler, redirects *RedirectHandler, apps *TrackerHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-link",
		Method:      http.MethodPost,
		Path:        "/links",
		Summary:     "Create smart link",
		Description: "Creates a named smart link mapping a generated slug to a destination URL.",
		Tags:        []string{"Links"},
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List smart links",
		Tags:        []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-link",
		Method:        http.MethodDelete,
		Path:          "/links/{id}",
		Summary:       "Delete smart link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		OperationID: "dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Engagement summary",
		Description: "Derived 7-day engagement series, peak hour, and top link for the caller.",
		Tags:        []string{"Links"},
	}, links.Dashboard)

	huma.Register(api, huma.Operation{
		OperationID: "add-application",
		Method:      http.MethodPost,
		Path:        "/applications",
		Summary:     "Track application",
		Tags:        []string{"Tracker"},
	}, apps.AddApplication)

	huma.Register(api, huma.Operation{
		OperationID: "list-applications",
		Method:      http.MethodGet,
		Path:        "/applications",
		Summary:     "List applications",
		Tags:        []string{"Tracker"},
	}, apps.ListApplications)

	huma.Register(api, huma.Operation{
		OperationID: "update-application",
		Method:      http.MethodPatch,
		Path:        "/applications/{id}",
		Summary:     "Update application status",
		Tags:        []string{"Tracker"},
	}, apps.UpdateApplication)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-application",
		Method:        http.MethodDelete,
		Path:          "/applications/{id}",
		Summary:       "Delete application",
		Tags:          []string{"Tracker"},
		DefaultStatus: http.StatusNoContent,
	}, apps.DeleteApplication)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{slug}",
		Summary:     "Redirect to destination",
		Description: "Resolves a slug, records human engagement, and redirects to the destination URL.",
		Tags:        []string{"Links"},
	}, redirects.Redirect)
}
