package templates

import (
	"strconv"

	"github.com/louisbranch/civicreporter/internal/complaints"
	"github.com/louisbranch/civicreporter/internal/services/reporter/routepath"
)

// Photo widths match what each surface displays.
const (
	StatusPhotoWidth    = 400
	DashboardPhotoWidth = 300
	AdminPhotoWidth     = 150
)

// ComplaintView is a complaint prepared for display.
type ComplaintView struct {
	ID          int64
	Label       string
	Title       string
	Description string
	Address     string
	Status      string
	StatusLabel string
	AdminNote   string
	PhotoURL    string
}

// NewComplaintView localizes c. photoURL is the resolved upload URL or "".
func NewComplaintView(page PageContext, c complaints.Complaint, photoURL string) ComplaintView {
	statusLabel := string(c.Status)
	if key := c.Status.MessageKey(); key != "" {
		statusLabel = page.T(key)
	}
	return ComplaintView{
		ID:          c.ID,
		Label:       c.Label(),
		Title:       c.Title,
		Description: c.Description,
		Address:     c.DisplayAddress(page.T("reporter.dashboard.no_address")),
		Status:      string(c.Status),
		StatusLabel: statusLabel,
		AdminNote:   c.AdminNote,
		PhotoURL:    photoURL,
	}
}

// ReportForm holds the submitted values so a failed submit keeps them.
type ReportForm struct {
	Title         string
	Description   string
	Address       string
	ReporterEmail string
}

// ReportView renders the complaint form.
type ReportView struct {
	Page PageContext
	Form ReportForm
	// Accept is the photo input accept attribute.
	Accept string
	// SubmittedID is set after a successful submission.
	SubmittedID int64
	// Error is an already translated failure message.
	Error string
}

// SubmittedIDText is the submitted id as ungrouped digits, so it can be
// pasted back into the status lookup.
func (v ReportView) SubmittedIDText() string {
	return strconv.FormatInt(v.SubmittedID, 10)
}

// StatusURL links the submitted id to the status assistant.
func (v ReportView) StatusURL() string {
	return routepath.StatusLookup(v.SubmittedID)
}

// ChatMessage is one line of the status assistant transcript.
type ChatMessage struct {
	FromUser bool
	Text     string
	// Complaint is attached to assistant replies that found one.
	Complaint *ComplaintView
}

// StatusView renders the status assistant.
type StatusView struct {
	Page       PageContext
	Query      string
	Messages   []ChatMessage
	PhotoWidth int
}

// DashboardView renders the public resolved-complaints dashboard.
type DashboardView struct {
	Page       PageContext
	Total      int
	Items      []ComplaintView
	MapURL     string
	Failed     bool
	PhotoWidth int
}

// TotalText is the resolved count as plain digits.
func (v DashboardView) TotalText() string {
	return strconv.Itoa(v.Total)
}

// StatusOption is one entry of a status select.
type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

// FilterURL is the admin panel narrowed to this option.
func (o StatusOption) FilterURL() string {
	return routepath.AdminFiltered(o.Value)
}

// StatusOptions lists every status, selecting current. When withAll is set
// an "all" entry with an empty value comes first.
func StatusOptions(page PageContext, current string, withAll bool) []StatusOption {
	statuses := complaints.Statuses()
	options := make([]StatusOption, 0, len(statuses)+1)
	if withAll {
		options = append(options, StatusOption{Value: "", Label: page.T("reporter.admin.filter_all"), Selected: current == ""})
	}
	for _, status := range statuses {
		options = append(options, StatusOption{
			Value:    string(status),
			Label:    page.T(status.MessageKey()),
			Selected: string(status) == current,
		})
	}
	return options
}

// AdminLoginView renders the password gate.
type AdminLoginView struct {
	Page   PageContext
	Failed bool
}

// AdminItemView is one complaint row in the admin panel.
type AdminItemView struct {
	Page       PageContext
	Complaint  ComplaintView
	Statuses   []StatusOption
	Filter     string
	PhotoWidth int
	// Flash is a translated result of the last update, if any.
	Flash   string
	FlashOK bool
}

// UpdateURL is the form action for the item.
func (v AdminItemView) UpdateURL() string {
	return routepath.AdminComplaint(v.Complaint.ID)
}

// AdminView renders the triage panel.
type AdminView struct {
	Page    PageContext
	Filter  string
	Filters []StatusOption
	Items   []AdminItemView
	Failed  bool
}

// AuditRecordView is one triage audit row.
type AuditRecordView struct {
	ComplaintID int64
	StatusLabel string
	AdminNote   string
	SessionID   string
	Timestamp   string
}

// AuditView renders the triage audit log.
type AuditView struct {
	Page     PageContext
	Filter   string
	Records  []AuditRecordView
	NextURL  string
	Error    string
	PageSize int
}
