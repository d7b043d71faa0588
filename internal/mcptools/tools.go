// Package mcptools exposes the applicant table to MCP clients as tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/okian/hireview/internal/domain/board"
	"github.com/okian/hireview/internal/domain/export"
	"github.com/okian/hireview/internal/domain/ingest"
	"github.com/okian/hireview/internal/domain/model"
	"github.com/okian/hireview/internal/domain/session"
	"github.com/okian/hireview/internal/domain/types"
	"github.com/okian/hireview/internal/domain/view"
	"github.com/okian/hireview/pkg/logger"
)

// Tool names.
const (
	ToolListApplicants = "list_applicants"
	ToolExportCSV      = "export_applicants_csv"
	ToolListJobs       = "list_jobs"
	ToolGetJob         = "get_job"
)

// Backend is the part of the REST backend the tools read.
type Backend interface {
	Applicants(ctx context.Context) (ingest.Result, error)
	PublicJobs(ctx context.Context) ([]types.Job, error)
	Job(ctx context.Context, id int64) (types.Job, error)
}

// Tools answers tool calls against one backend with one login session.
type Tools struct {
	backend Backend
	session session.Session
	logger  logger.Logger
}

// New builds the tool set. An invalid sess means requests go out
// anonymous.
func New(b Backend, sess session.Session) *Tools {
	return &Tools{backend: b, session: sess, logger: logger.Named("mcp")}
}

// NewServer returns an MCP server with every tool registered.
func NewServer(name, version string, t *Tools) *server.MCPServer {
	s := server.NewMCPServer(name, version)
	t.Register(s)
	return s
}

var viewProperties = map[string]interface{}{
	"filter":    map[string]interface{}{"type": "string", "description": "Case-insensitive match on first name, last name or email"},
	"sort":      map[string]interface{}{"type": "string", "description": "Sort column, e.g. resume_overall_score or applicant_name"},
	"direction": map[string]interface{}{"type": "string", "description": "asc or desc (default: asc)"},
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	list := mcp.NewTool(ToolListApplicants,
		mcp.WithDescription("List one page of applicants with the HR table's filter, sort and paging rules"),
	)
	list.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: merge(viewProperties, map[string]interface{}{
			"page":      map[string]interface{}{"type": "integer", "description": "Zero-based page index (default: 0)"},
			"page_size": map[string]interface{}{"type": "integer", "description": "10, 20 or 50 (default: 10)"},
		}),
	}
	s.AddTool(list, t.ListApplicants)

	csv := mcp.NewTool(ToolExportCSV,
		mcp.WithDescription("Export every filtered applicant, in sort order, as CSV text"),
	)
	csv.InputSchema = mcp.ToolInputSchema{Type: "object", Properties: viewProperties}
	s.AddTool(csv, t.ExportCSV)

	jobs := mcp.NewTool(ToolListJobs,
		mcp.WithDescription("List open positions from the public job board"),
	)
	jobs.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"search":     map[string]interface{}{"type": "string", "description": "Case-insensitive match on title, department or location"},
			"department": map[string]interface{}{"type": "string", "description": "Department, or all (default)"},
			"location":   map[string]interface{}{"type": "string", "description": "Location, or all (default)"},
			"sort_by":    map[string]interface{}{"type": "string", "description": "recent (default) or title"},
		},
	}
	s.AddTool(jobs, t.ListJobs)

	job := mcp.NewTool(ToolGetJob,
		mcp.WithDescription("Show one job posting with its description and skills"),
	)
	job.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"job_id": map[string]interface{}{"type": "integer", "description": "Job id from list_jobs"},
		},
		Required: []string{"job_id"},
	}
	s.AddTool(job, t.GetJob)
}

// ListApplicants handles the list_applicants tool.
func (t *Tools) ListApplicants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok && request.Params.Arguments != nil {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	v, err := t.load(ctx, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if size := intArg(args, "page_size", 0); size != 0 {
		if _, err := v.SetPageSize(size); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	page, err := v.SetPage(intArg(args, "page", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body, err := json.Marshal(summarize(page))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode page: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// ExportCSV handles the export_applicants_csv tool.
func (t *Tools) ExportCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok && request.Params.Arguments != nil {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	v, err := t.load(ctx, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := export.Render(v.Filtered())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// ListJobs handles the list_jobs tool.
func (t *Tools) ListJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok && request.Params.Arguments != nil {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	jobs, err := t.backend.PublicJobs(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch jobs: %v", err)), nil
	}
	q := board.JobQuery{
		Search:     stringArg(args, "search", ""),
		Department: stringArg(args, "department", board.All),
		Location:   stringArg(args, "location", board.All),
		SortBy:     stringArg(args, "sort_by", board.SortRecent),
	}
	body, err := json.Marshal(board.Jobs(jobs, q))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode jobs: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// GetJob handles the get_job tool.
func (t *Tools) GetJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	id := intArg(args, "job_id", 0)
	if id < 1 {
		return mcp.NewToolResultError("job_id is required"), nil
	}
	job, err := t.backend.Job(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch job %d: %v", id, err)), nil
	}
	body, err := json.Marshal(job)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode job: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// load fetches the applicants and applies the filter and sort arguments.
func (t *Tools) load(ctx context.Context, args map[string]interface{}) (*view.View, error) {
	if t.session.Valid() {
		ctx = session.WithSession(ctx, t.session)
	}
	res, err := t.backend.Applicants(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch applicants: %w", err)
	}
	if len(res.Dropped) > 0 {
		t.logger.Warn(ctx, "dropped applicant rows", logger.Int("count", len(res.Dropped)))
	}

	v := view.New(view.Config{PageSizes: view.DefaultPageSizes, DefaultPageSize: view.DefaultPageSizes[0]})
	v.Refresh(res.Records)
	// The filter is a raw substring, same as the table's filter box.
	filter, _ := args["filter"].(string)
	v.SetFilter(filter)
	if key := stringArg(args, "sort", ""); key != "" {
		dir, err := view.ParseDirection(stringArg(args, "direction", ""))
		if err != nil {
			return nil, err
		}
		if _, err := v.SetSort(view.SortKey(key), dir); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// row is the compact applicant shape handed to tool callers.
type row struct {
	ApplicationID int64  `json:"application_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	JobID         string `json:"job_id"`
	Applied       string `json:"applied_date"`
	SkillsMatch   string `json:"skills_match"`
	JDMatch       string `json:"jd_match"`
	Resume        string `json:"resume_score"`
	Experience    string `json:"experience"`
	Role          string `json:"current_role"`
	Status        string `json:"status"`
	Location      string `json:"location"`
}

type pageSummary struct {
	Rows          []row      `json:"rows"`
	PageIndex     int        `json:"page_index"`
	PageCount     int        `json:"page_count"`
	PageSize      int        `json:"page_size"`
	FilteredCount int        `json:"filtered_count"`
	TotalCount    int        `json:"total_count"`
	Sort          *view.Sort `json:"sort,omitempty"`
}

func summarize(p view.Page) pageSummary {
	out := pageSummary{
		Rows:          make([]row, 0, len(p.Rows)),
		PageIndex:     p.PageIndex,
		PageCount:     p.PageCount,
		PageSize:      p.PageSize,
		FilteredCount: p.FilteredCount,
		TotalCount:    p.TotalCount,
		Sort:          p.Sort,
	}
	for i := range p.Rows {
		r := &p.Rows[i]
		name := r.FullName()
		if name == "" {
			name = model.Placeholder
		}
		out.Rows = append(out.Rows, row{
			ApplicationID: r.ApplicationID,
			Name:          name,
			Email:         model.Text(r.Email),
			JobID:         model.Int(r.JobID),
			Applied:       model.Text(r.AppliedDate),
			SkillsMatch:   model.PercentOrPlaceholder(r.SkillsMatchingScore),
			JDMatch:       model.PercentOrPlaceholder(r.JDMatchingScore),
			Resume:        model.PercentOrPlaceholder(r.ResumeOverallScore),
			Experience:    r.Experience(),
			Role:          model.Text(r.CurrentRole),
			Status:        r.Status(),
			Location:      model.Text(r.Location),
		})
	}
	return out
}

func stringArg(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// intArg reads a JSON number; MCP arguments decode numbers as float64.
func intArg(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func merge(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}
