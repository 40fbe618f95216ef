package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/domain/board"
	"github.com/turtacn/ProjectPulse/internal/domain/snapshot"
	"github.com/turtacn/ProjectPulse/pkg/client"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// boardOptions holds the flags shared by the board subcommands.
type boardOptions struct {
	ProjectsFile string
	TasksFile    string
	Now          string

	Search     string
	ProjectID  string
	Employee   string
	Status     string
	Completion string
	Priority   string
	Sort       string
	Order      string
	Assignee   string
}

func (o *boardOptions) local() bool {
	return o.ProjectsFile != "" || o.TasksFile != ""
}

func (o *boardOptions) query() dashboard.BoardQuery {
	return dashboard.BoardQuery{
		Search:     o.Search,
		ProjectID:  o.ProjectID,
		Employee:   o.Employee,
		Status:     o.Status,
		Completion: o.Completion,
		Priority:   o.Priority,
		Sort:       o.Sort,
		Order:      o.Order,
	}
}

func (o *boardOptions) params() client.BoardParams {
	q := o.query()
	return client.BoardParams{
		Search:     q.Search,
		ProjectID:  q.ProjectID,
		Employee:   q.Employee,
		Status:     q.Status,
		Completion: q.Completion,
		Priority:   q.Priority,
		Sort:       q.Sort,
		Order:      q.Order,
	}
}

// NewBoardCmd creates the board command.  With --projects-file or
// --tasks-file the board is computed locally; otherwise the API server is
// queried.
func NewBoardCmd() *cobra.Command {
	opts := &boardOptions{}

	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Show the project board, task boards and summary snapshots",
	}
	pf := boardCmd.PersistentFlags()
	pf.StringVar(&opts.ProjectsFile, "projects-file", "", "compute locally from a JSON array of project records")
	pf.StringVar(&opts.TasksFile, "tasks-file", "", "compute locally from a JSON array of task records")
	pf.StringVar(&opts.Now, "now", "", "evaluate overdue state at this instant (RFC 3339 or YYYY-MM-DD, local mode only)")

	showCmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"show"},
		Short:   "List projects with filters and sorting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardShow(cmd, opts)
		},
	}
	addFilterFlags(showCmd, opts)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the KPI counters of the whole board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardSummary(cmd, opts)
		},
	}

	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "List a member's tasks ordered by due date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardTasks(cmd, opts)
		},
	}
	addFilterFlags(tasksCmd, opts)
	tasksCmd.Flags().StringVar(&opts.Assignee, "assignee", "", "member ID whose tasks to list (assignee or collaborator)")

	invalidateCmd := &cobra.Command{
		Use:   "invalidate [project-id...]",
		Short: "Drop cached board views on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoardInvalidate(cmd, args)
		},
	}

	boardCmd.AddCommand(showCmd, summaryCmd, tasksCmd, invalidateCmd, newSnapshotCmd())
	return boardCmd
}

func addFilterFlags(cmd *cobra.Command, opts *boardOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.Search, "search", "", "substring matched against names, titles and descriptions")
	f.StringVar(&opts.ProjectID, "project", "", "exact project ID")
	f.StringVar(&opts.Employee, "employee", "", "substring matched against team member names and IDs")
	f.StringVar(&opts.Status, "status", "", "status (to-do, in progress, completed, blocked)")
	f.StringVar(&opts.Completion, "completion", "", "completion bucket (0-25, 26-50, 51-75, 76-100)")
	f.StringVar(&opts.Priority, "priority", "", "priority bucket (low, medium, high)")
	f.StringVar(&opts.Sort, "sort", "", "sort field (completion, deadline)")
	f.StringVar(&opts.Order, "order", "", "sort order (asc, desc)")
}

// ─────────────────────────────────────────────────────────────────────────────
// Runners
// ─────────────────────────────────────────────────────────────────────────────

func runBoardShow(cmd *cobra.Command, opts *boardOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	var res *board.Result
	if opts.local() {
		svc, err := localService(cliCtx, opts)
		if err != nil {
			return err
		}
		res, err = svc.Board(ctx, opts.query())
		if err != nil {
			return err
		}
	} else {
		c, err := requireClient(cliCtx)
		if err != nil {
			return err
		}
		res, err = c.Board().Get(ctx, opts.params())
		if err != nil {
			return err
		}
	}
	return PrintResult(cmd, boardView{res})
}

func runBoardSummary(cmd *cobra.Command, opts *boardOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	var sum *board.Summary
	if opts.local() {
		svc, err := localService(cliCtx, opts)
		if err != nil {
			return err
		}
		sum, err = svc.Summary(ctx)
		if err != nil {
			return err
		}
	} else {
		c, err := requireClient(cliCtx)
		if err != nil {
			return err
		}
		sum, err = c.Board().Summary(ctx)
		if err != nil {
			return err
		}
	}
	return PrintResult(cmd, summaryView{sum})
}

func runBoardTasks(cmd *cobra.Command, opts *boardOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	var res *board.TaskResult
	if opts.local() {
		svc, err := localService(cliCtx, opts)
		if err != nil {
			return err
		}
		res, err = svc.Tasks(ctx, dashboard.TaskQuery{BoardQuery: opts.query(), AssigneeID: opts.Assignee})
		if err != nil {
			return err
		}
	} else {
		c, err := requireClient(cliCtx)
		if err != nil {
			return err
		}
		res, err = c.Board().Tasks(ctx, client.TaskParams{BoardParams: opts.params(), Assignee: opts.Assignee})
		if err != nil {
			return err
		}
	}
	return PrintResult(cmd, taskView{res})
}

func runBoardInvalidate(cmd *cobra.Command, projectIDs []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	c, err := requireClient(cliCtx)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	if err := c.Board().Invalidate(ctx, projectIDs...); err != nil {
		return err
	}
	if len(projectIDs) == 0 {
		PrintSuccess(cmd, "all cached board views dropped")
	} else {
		PrintSuccess(cmd, "cached views dropped for "+strings.Join(projectIDs, ", "))
	}
	return nil
}

func requireClient(cliCtx *CLIContext) (*client.Client, error) {
	if cliCtx.Client == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "no API client available; pass --server or use --projects-file")
	}
	return cliCtx.Client, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Local mode
// ─────────────────────────────────────────────────────────────────────────────

// fileSource serves records from JSON export files.
type fileSource struct {
	projectsFile string
	tasksFile    string
}

func (f fileSource) ListProjects(_ context.Context) ([]board.Project, error) {
	data, err := readRecords(f.projectsFile)
	if err != nil {
		return nil, err
	}
	return board.DecodeProjects(data), nil
}

func (f fileSource) ListTasks(_ context.Context, memberID string) ([]board.Task, error) {
	data, err := readRecords(f.tasksFile)
	if err != nil {
		return nil, err
	}
	tasks := board.DecodeTasks(data)
	if memberID == "" {
		return tasks, nil
	}
	out := tasks[:0]
	for i := range tasks {
		for _, m := range tasks[i].Members() {
			if m == memberID {
				out = append(out, tasks[i])
				break
			}
		}
	}
	return out, nil
}

// readRecords reads a record file.  An unset path reads as an empty array.
func readRecords(path string) ([]byte, error) {
	if path == "" {
		return []byte("[]"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "failed to read record file").WithDetail(path)
	}
	if !json.Valid(data) {
		return nil, errors.New(errors.ErrCodeDataSourceParseError, "record file is not valid JSON").WithDetail(path)
	}
	return data, nil
}

// localService builds a dashboard service over the record files using the
// configured board defaults.
func localService(cliCtx *CLIContext, opts *boardOptions) (dashboard.Service, error) {
	var svcOpts []dashboard.Option
	if opts.Now != "" {
		now, err := parseNow(opts.Now)
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, dashboard.WithClock(func() time.Time { return now }))
	}
	cfg := dashboard.Config{}
	if cliCtx.Config != nil {
		cfg.DefaultSort = board.SortField(cliCtx.Config.Board.DefaultSort)
		cfg.DefaultOrder = common.SortOrder(cliCtx.Config.Board.DefaultOrder)
	}
	src := fileSource{projectsFile: opts.ProjectsFile, tasksFile: opts.TasksFile}
	return dashboard.NewService(src, cliCtx.Logger, cfg, svcOpts...)
}

func parseNow(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New(errors.ErrCodeValidation, "--now must be RFC 3339 or YYYY-MM-DD").WithDetail(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────────────────

func newSnapshotCmd() *cobra.Command {
	var limit int

	snapCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Create and inspect stored board summaries",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Store the current summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				ref, err := c.Board().CreateSnapshot(ctx)
				if err != nil {
					return err
				}
				return PrintResult(cmd, snapshotRefsView{*ref})
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				refs, err := c.Board().ListSnapshots(ctx, limit)
				if err != nil {
					return err
				}
				return PrintResult(cmd, snapshotRefsView(refs))
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of snapshots")

	getCmd := &cobra.Command{
		Use:   "get <snapshot-id>",
		Short: "Show one stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				snap, err := c.Board().GetSnapshot(ctx, args[0])
				if err != nil {
					return err
				}
				return PrintResult(cmd, snapshotView{snap})
			})
		},
	}

	snapCmd.AddCommand(createCmd, listCmd, getCmd)
	return snapCmd
}

func withClient(cmd *cobra.Command, fn func(context.Context, *client.Client) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	c, err := requireClient(cliCtx)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()
	return fn(ctx, c)
}

// ─────────────────────────────────────────────────────────────────────────────
// Views
// ─────────────────────────────────────────────────────────────────────────────

type boardView struct{ r *board.Result }

func (v boardView) MarshalJSON() ([]byte, error) { return json.Marshal(v.r) }

func (v boardView) TableHeaders() []string {
	return []string{"ID", "Name", "Status", "Priority", "Progress", "Due", "Tasks"}
}

func (v boardView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.r.Projects))
	for _, p := range v.r.Projects {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			colorStatus(p.Status),
			string(p.Priority),
			fmt.Sprintf("%d%%", p.CompletionPercent),
			dueText(p.DueDate, p.Overdue),
			strconv.Itoa(len(p.Tasks)),
		})
	}
	return rows
}

func (v boardView) String() string {
	var sb strings.Builder
	for _, p := range v.r.Projects {
		fmt.Fprintf(&sb, "%s  %s [%s] %d%% due %s\n", p.ID, p.Name, p.Status, p.CompletionPercent, dueText(p.DueDate, p.Overdue))
	}
	s := v.r.Summary
	fmt.Fprintf(&sb, "%d shown; to-do %d, in progress %d, completed %d, blocked %d; average progress %d%%",
		len(v.r.Projects), s.TodoCount, s.InProgressCount, s.CompletedCount, s.BlockedCount, s.AverageProgressPercent)
	return sb.String()
}

type summaryView struct{ s *board.Summary }

func (v summaryView) MarshalJSON() ([]byte, error) { return json.Marshal(v.s) }

func (v summaryView) TableHeaders() []string { return []string{"Metric", "Value"} }

func (v summaryView) TableRows() [][]string {
	s := v.s
	return [][]string{
		{"To do", strconv.Itoa(s.TodoCount)},
		{"In progress", strconv.Itoa(s.InProgressCount)},
		{"Completed", strconv.Itoa(s.CompletedCount)},
		{"Blocked", strconv.Itoa(s.BlockedCount)},
		{"Active projects", strconv.Itoa(s.ActiveProjectCount)},
		{"Total tasks", strconv.Itoa(s.TotalTaskCount)},
		{"Completed tasks", strconv.Itoa(s.CompletedTaskCount)},
		{"Overdue tasks", strconv.Itoa(s.OverdueTaskCount)},
		{"Median days overdue", strconv.Itoa(s.MedianDaysOverdue)},
		{"Average progress", fmt.Sprintf("%d%%", s.AverageProgressPercent)},
	}
}

func (v summaryView) String() string {
	var sb strings.Builder
	for _, row := range v.TableRows() {
		fmt.Fprintf(&sb, "%s: %s\n", row[0], row[1])
	}
	return strings.TrimRight(sb.String(), "\n")
}

type taskView struct{ r *board.TaskResult }

func (v taskView) MarshalJSON() ([]byte, error) { return json.Marshal(v.r) }

func (v taskView) TableHeaders() []string {
	return []string{"ID", "Project", "Title", "Status", "Priority", "Due"}
}

func (v taskView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.r.Tasks))
	for _, t := range v.r.Tasks {
		due := dueText(t.DueDate, t.Overdue)
		if t.Overdue {
			due = fmt.Sprintf("%s (%dd)", due, t.DaysOverdue)
		}
		rows = append(rows, []string{t.ID, t.ProjectID, t.Title, colorStatus(t.Status), string(t.Priority), due})
	}
	return rows
}

func (v taskView) String() string {
	var sb strings.Builder
	for _, t := range v.r.Tasks {
		fmt.Fprintf(&sb, "%s  %s [%s] due %s\n", t.ID, t.Title, t.StatusLabel, dueText(t.DueDate, t.Overdue))
	}
	s := v.r.Summary
	fmt.Fprintf(&sb, "%d tasks; %d overdue, median %d days", s.TotalCount, s.OverdueCount, s.MedianDaysOverdue)
	return sb.String()
}

type snapshotRefsView []snapshot.Ref

func (v snapshotRefsView) TableHeaders() []string { return []string{"ID", "Taken At", "Size", "Key"} }

func (v snapshotRefsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, r := range v {
		rows = append(rows, []string{r.ID, r.TakenAt.UTC().Format(time.RFC3339), strconv.FormatInt(r.Size, 10), r.Key})
	}
	return rows
}

type snapshotView struct{ s *snapshot.Snapshot }

func (v snapshotView) MarshalJSON() ([]byte, error) { return json.Marshal(v.s) }

func (v snapshotView) TableHeaders() []string { return summaryView{}.TableHeaders() }

func (v snapshotView) TableRows() [][]string {
	rows := [][]string{
		{"Snapshot", v.s.ID},
		{"Taken at", v.s.TakenAt.UTC().Format(time.RFC3339)},
		{"Projects", strconv.Itoa(v.s.ProjectCount)},
	}
	return append(rows, summaryView{&v.s.Summary}.TableRows()...)
}

func dueText(d board.DueDate, overdue bool) string {
	t, ok := d.Time()
	if !ok {
		return "-"
	}
	s := t.UTC().Format("2006-01-02")
	if overdue {
		return color.RedString(s)
	}
	return s
}

func colorStatus(s board.Status) string {
	switch s {
	case board.StatusCompleted:
		return color.GreenString(string(s))
	case board.StatusBlocked:
		return color.RedString(string(s))
	case board.StatusInProgress:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}

//Personal.AI order the ending
