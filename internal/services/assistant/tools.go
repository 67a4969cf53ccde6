package assistant

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/louisbranch/civicreporter/internal/complaints"
	"github.com/louisbranch/civicreporter/internal/services/shared/complaintsapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// apiCallTimeout bounds each complaints API call made by a tool.
const apiCallTimeout = 10 * time.Second

var (
	errInvalidID = errors.New("Please enter a numeric complaint ID")
	errNotFound  = errors.New("Complaint not found")
	errListing   = errors.New("Resolved complaints are unavailable right now")
)

// ComplaintsAPI is the read-only slice of the complaints API the tools use.
type ComplaintsAPI interface {
	Get(ctx context.Context, id int64) (complaints.Complaint, error)
	List(ctx context.Context, filter complaints.StatusFilter) ([]complaints.Complaint, error)
	PhotoURL(photoPath string) string
}

// ComplaintStatusInput represents the MCP tool input for a status lookup.
type ComplaintStatusInput struct {
	ID string `json:"id" jsonschema:"numeric complaint identifier"`
}

// ComplaintStatusResult represents the MCP tool output for a status lookup.
type ComplaintStatusResult struct {
	ID          int64  `json:"id" jsonschema:"complaint identifier"`
	Title       string `json:"title" jsonschema:"complaint title"`
	Status      string `json:"status" jsonschema:"triage status (Pending, In Progress, Resolved)"`
	Description string `json:"description" jsonschema:"free-form description from the reporter"`
	AdminNote   string `json:"admin_note" jsonschema:"note left by the admin who triaged the complaint"`
	PhotoURL    string `json:"photo_url" jsonschema:"URL of the attached photo, empty when none"`
}

// ComplaintStatusTool defines the MCP tool schema for a status lookup.
func ComplaintStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "complaint_status",
		Description: "Looks up a complaint by its numeric ID and returns its title, status, description, admin note and photo.",
	}
}

// ComplaintStatusHandler answers one status lookup.
func ComplaintStatusHandler(api ComplaintsAPI) mcp.ToolHandlerFor[ComplaintStatusInput, ComplaintStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ComplaintStatusInput) (*mcp.CallToolResult, ComplaintStatusResult, error) {
		id, err := complaints.ParseID(input.ID)
		if err != nil {
			return nil, ComplaintStatusResult{}, errInvalidID
		}

		runCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()

		complaint, err := api.Get(runCtx, id)
		if err != nil {
			if !errors.Is(err, complaintsapi.ErrNotFound) {
				log.Printf("assistant lookup complaint %d: %v", id, err)
			}
			return nil, ComplaintStatusResult{}, errNotFound
		}

		result := ComplaintStatusResult{
			ID:          complaint.ID,
			Title:       complaint.Title,
			Status:      string(complaint.Status),
			Description: complaint.Description,
			AdminNote:   complaint.AdminNote,
		}
		if complaint.HasPhoto() {
			result.PhotoURL = api.PhotoURL(complaint.PhotoPath)
		}
		return nil, result, nil
	}
}

// ResolvedComplaintsInput is empty; the tool takes no arguments.
type ResolvedComplaintsInput struct{}

// ResolvedComplaint is one row of the resolved listing.
type ResolvedComplaint struct {
	ID      int64  `json:"id" jsonschema:"complaint identifier"`
	Title   string `json:"title" jsonschema:"complaint title"`
	Address string `json:"address,omitempty" jsonschema:"street address given by the reporter"`
}

// ResolvedComplaintsResult represents the MCP tool output for the resolved listing.
type ResolvedComplaintsResult struct {
	Total int                 `json:"total" jsonschema:"number of resolved complaints"`
	Items []ResolvedComplaint `json:"items" jsonschema:"resolved complaints in API order"`
}

// ResolvedComplaintsTool defines the MCP tool schema for the resolved listing.
func ResolvedComplaintsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "resolved_complaints",
		Description: "Lists every complaint the city has marked as Resolved.",
	}
}

// ResolvedComplaintsHandler lists resolved complaints.
func ResolvedComplaintsHandler(api ComplaintsAPI) mcp.ToolHandlerFor[ResolvedComplaintsInput, ResolvedComplaintsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ResolvedComplaintsInput) (*mcp.CallToolResult, ResolvedComplaintsResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
		defer cancel()

		items, err := api.List(runCtx, complaints.StatusFilter(complaints.StatusResolved))
		if err != nil {
			log.Printf("assistant list resolved: %v", err)
			return nil, ResolvedComplaintsResult{}, errListing
		}

		result := ResolvedComplaintsResult{
			Total: len(items),
			Items: make([]ResolvedComplaint, 0, len(items)),
		}
		for _, item := range items {
			result.Items = append(result.Items, ResolvedComplaint{
				ID:      item.ID,
				Title:   item.Title,
				Address: item.Address,
			})
		}
		return nil, result, nil
	}
}
