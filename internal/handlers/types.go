package handlers

import (
	"time"

	"github.com/lromero/smartlink/internal/analytics"
)

// LinkBody is the JSON shape of a link record.
type LinkBody struct {
	ID             string     `doc:"Store-assigned identifier"        json:"id"`
	Slug           string     `doc:"Short code used in redirect URLs" example:"x7Kd2a"                  json:"slug"`
	ShortURL       string     `doc:"Full short URL"                   example:"http://localhost:8888/x7Kd2a" json:"shortUrl"`
	Name           string     `doc:"Display label"                    example:"Portfolio"               json:"name"`
	DestinationURL string     `doc:"Redirect target"                  example:"https://example.com/cv"  json:"destinationUrl"`
	ClickCount     int64      `doc:"Recorded human visits"            json:"clickCount"`
	LastClickedAt  *time.Time `doc:"Time of the most recent human visit" json:"lastClickedAt"`
	CreatedAt      time.Time  `doc:"Creation time"                    json:"createdAt"`
}

// CreateLinkRequest is the request for creating a smart link.
type CreateLinkRequest struct {
	Body struct {
		Name           string `doc:"Display label"   example:"Portfolio"              json:"name"           minLength:"1"`
		DestinationURL string `doc:"Redirect target" example:"https://example.com/cv" json:"destinationUrl" minLength:"1"`
	}
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkBody
}

// ListLinksResponse is the response for listing the caller's links.
type ListLinksResponse struct {
	Body struct {
		Links []LinkBody `json:"links"`
	}
}

// DeleteLinkRequest is the request for deleting a link.
type DeleteLinkRequest struct {
	ID string `doc:"Link id" path:"id"`
}

// DashboardResponse carries the derived engagement summary.
type DashboardResponse struct {
	Body analytics.Summary
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	Slug string `doc:"The short code" example:"x7Kd2a" path:"slug"`
}

// RedirectResponse redirects the visitor to the link's destination.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The destination URL" header:"Location"`
	}
}

// ApplicationBody is the JSON shape of an application record.
type ApplicationBody struct {
	ID        string    `doc:"Store-assigned identifier" json:"id"`
	Company   string    `doc:"Company name"              example:"Initech"   json:"company"`
	Role      string    `doc:"Role applied for"          example:"SRE"       json:"role"`
	Platform  string    `doc:"Outreach channel"          example:"Direct"    json:"platform"`
	Status    string    `doc:"Pipeline status"           example:"Applied"   json:"status"`
	AppliedAt time.Time `doc:"Application time"          json:"appliedAt"`
}

// AddApplicationRequest is the request for tracking a new application.
type AddApplicationRequest struct {
	Body struct {
		Company  string `doc:"Company name"               example:"Initech" json:"company"  minLength:"1"`
		Role     string `doc:"Role applied for"           example:"SRE"     json:"role"     minLength:"1"`
		Platform string `doc:"Outreach channel, optional" example:"Direct"  json:"platform,omitempty" required:"false"`
	}
}

// AddApplicationResponse is the response for a tracked application.
type AddApplicationResponse struct {
	Body ApplicationBody
}

// ListApplicationsRequest is the request for listing applications.
type ListApplicationsRequest struct {
	Query string `doc:"Substring filter on company or role" query:"q" required:"false"`
}

// ListApplicationsResponse is the response for listing applications.
type ListApplicationsResponse struct {
	Body struct {
		Applications []ApplicationBody `json:"applications"`
	}
}

// UpdateApplicationRequest is the request for moving an application to a new status.
type UpdateApplicationRequest struct {
	ID   string `doc:"Application id" path:"id"`
	Body struct {
		Status string `doc:"New pipeline status" example:"Interviewing" json:"status" minLength:"1"`
	}
}

// UpdateApplicationResponse is the response for a status update.
type UpdateApplicationResponse struct {
	Body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
}

// DeleteApplicationRequest is the request for deleting an application.
type DeleteApplicationRequest struct {
	ID string `doc:"Application id" path:"id"`
}
