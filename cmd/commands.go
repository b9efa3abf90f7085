package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/absensi/absensi/internal/api"
	"github.com/absensi/absensi/internal/dao"
	"github.com/absensi/absensi/internal/export"
	"github.com/absensi/absensi/internal/model"
	"github.com/absensi/absensi/internal/model1"
	"github.com/absensi/absensi/internal/render"
	"github.com/absensi/absensi/internal/view"
)

// resourceOps runs the CLI operations of one resource.
type resourceOps interface {
	list(ctx context.Context, w io.Writer, q model.Query) error
	update(ctx context.Context, id string) (dao.Object, error)
	export(ctx context.Context, q model.Query, tgt export.Target) (export.Result, error)
}

type typedOps[T dao.Object] struct {
	res      *dao.Resource[T]
	renderer model.Renderer[T]
}

func opsFor(f *dao.Factory, name string) (resourceOps, error) {
	rid, err := dao.ResourceFor(name)
	if err != nil {
		return nil, err
	}
	switch rid.Name {
	case dao.UsersRID.Name:
		return typedOps[dao.User]{f.Users(), render.User{}}, nil
	case dao.RolesRID.Name:
		return typedOps[dao.Role]{f.Roles(), render.Role{}}, nil
	case dao.DivisionsRID.Name:
		return typedOps[dao.Division]{f.Divisions(), render.Division{}}, nil
	case dao.AttendanceRID.Name:
		return typedOps[dao.Attendance]{f.Attendance(), render.Attendance{}}, nil
	}
	return nil, fmt.Errorf("%w: %s", dao.ErrUnknownResource, name)
}

// list loads one page through the table engine and prints it.
func (o typedOps[T]) list(ctx context.Context, w io.Writer, q model.Query) error {
	t := model.NewTable(o.renderer, q.PageSize)
	if sc, ok := q.Sort.Primary(); ok {
		if err := checkSortKey(t.Header(), sc.Key); err != nil {
			return err
		}
		t.OnSortChange(sc.Key, sc.Direction)
	}
	p := model.NewPager(o.res.ResourceID().Name, t, o.res)
	p.Configure(func(pq *model.Query) {
		pq.Search, pq.Filters = q.Search, q.Filters
	})
	if err := p.Load(ctx, q.Page); err != nil {
		return err
	}

	return printGrid(w, t.Render())
}

func (o typedOps[T]) update(ctx context.Context, id string) (dao.Object, error) {
	return view.EditRecord(ctx, view.DirectSuspender{}, o.res, id)
}

func (o typedOps[T]) export(ctx context.Context, q model.Query, tgt export.Target) (export.Result, error) {
	rid := o.res.ResourceID()
	return export.Resource(ctx, rid.Name, o.res, o.renderer, o.res.PageRequest(q), export.Options{}, tgt, time.Now())
}

// checkSortKey rejects sort keys the resource has no sortable column for.
func checkSortKey(h model1.Header, key string) error {
	col, ok := h.Column(key)
	if !ok {
		return fmt.Errorf("unknown sort key %q (expected one of %s)", key, strings.Join(sortKeys(h), ", "))
	}
	if !col.CanSort() {
		return fmt.Errorf("column %q is not sortable", key)
	}
	return nil
}

func sortKeys(h model1.Header) []string {
	var kk []string
	for _, c := range h {
		if c.CanSort() {
			kk = append(kk, c.Key)
		}
	}
	return kk
}

func printGrid(w io.Writer, g model.Grid) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	var cols []int
	names := make([]string, 0, len(g.Header))
	for i, h := range g.Header {
		if h.Kind == model1.KindActions {
			continue
		}
		cols = append(cols, i)
		name := strings.ToUpper(h.Name)
		if mark := g.SortMark(h.Key); mark != "" {
			name += " " + mark
		}
		names = append(names, name)
	}
	fmt.Fprintln(tw, strings.Join(names, "\t"))
	for _, r := range g.Rows {
		ff := make([]string, 0, len(cols))
		for _, c := range cols {
			if c < len(r.Fields) {
				ff = append(ff, r.Fields[c])
			}
		}
		fmt.Fprintln(tw, strings.Join(ff, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if g.Message != "" {
		fmt.Fprintln(w, g.Message)
	}
	_, err := fmt.Fprintf(w, "\nTotal Data: %d  Page %d/%d  Tampilan per halaman: %d\n",
		g.TotalData, g.Page, max(g.TotalPages, 1), g.PageSize)

	return err
}

// queryFlags are the list flags shared by list and export. The page size
// comes from the persistent --rows flag through the configuration.
type queryFlags struct {
	page    int
	search  string
	sort    string
	desc    bool
	filters []string
}

func (f *queryFlags) bind(cmd *cobra.Command, paging bool) {
	if paging {
		cmd.Flags().IntVar(&f.page, "page", 1, "Page to show")
	}
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Free text search")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Column key to sort on")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "Sort in descending order")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as key=value, repeatable")
}

func (f *queryFlags) query(rows int) (model.Query, error) {
	q := model.Query{
		Page:     max(f.page, 1),
		PageSize: rows,
		Search:   f.search,
		Filters:  make(map[string]string, len(f.filters)),
	}
	for _, kv := range f.filters {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return q, fmt.Errorf("invalid filter %q, expected key=value", kv)
		}
		q.Filters[k] = v
	}
	if f.sort != "" {
		dir := model1.SortAsc
		if f.desc {
			dir = model1.SortDesc
		}
		q.Sort = model1.SortSpec{{Key: f.sort, Direction: dir}}
	}

	return q, nil
}

// withSession bootstraps and checks that an account is logged in.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, d *deps) error) error {
	d, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer d.Close()

	if _, err := d.store.Require(); err != nil {
		return err
	}
	return fn(cmd.Context(), d)
}

// describeErr turns a backend failure into its user facing message.
func describeErr(err error) error {
	env := api.ErrorEnvelope(err)
	fields := api.FieldErrors(err)
	if len(fields) == 0 {
		return errors.New(env.Message)
	}
	var b strings.Builder
	b.WriteString(env.Message)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
	}
	return errors.New(b.String())
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			if email == "" {
				if email, err = prompt(cmd, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(cmd, "Password: "); err != nil {
					return err
				}
			}

			ctx, cancel := d.timeout(cmd.Context())
			defer cancel()
			env, err := d.factory.Auth().Login(ctx, dao.LoginRequest{Email: email, Password: password})
			if err != nil {
				return describeErr(err)
			}
			if err := d.store.Login(env.Content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, logged in as %s (%s)\n", env.Message, env.Content.User.Name, d.store.Profile())

			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password, prompted when empty")

	return cmd
}

func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(cmd, label)
	}
	fmt.Fprint(cmd.OutOrStdout(), label)
	bb, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bb), nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, d *deps) error {
				ctx, cancel := d.timeout(ctx)
				defer cancel()
				if err := d.factory.Auth().Logout(ctx); err != nil {
					d.log.Warn("remote logout failed", "error", err)
				}
				if err := d.store.Logout(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, d *deps) error {
				ctx, cancel := d.timeout(ctx)
				defer cancel()
				u, err := d.factory.Auth().Me(ctx)
				if err != nil {
					return describeErr(err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Profile\t%s\n", d.store.Profile())
				fmt.Fprintf(tw, "Name\t%s\n", render.Missing(u.Name))
				fmt.Fprintf(tw, "Email\t%s\n", render.Missing(u.Email))
				fmt.Fprintf(tw, "No. HP\t%s\n", render.Missing(u.PhoneNumber))
				fmt.Fprintf(tw, "Divisi\t%s\n", render.Missing(u.Division))
				fmt.Fprintf(tw, "Role\t%s\n", render.Missing(u.Role))
				return tw.Flush()
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:       "list <resource>",
		Short:     "List one page of a resource",
		Args:      cobra.ExactArgs(1),
		ValidArgs: resourceNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, d *deps) error {
				ops, err := opsFor(d.factory, d.aliases.Get(args[0]))
				if err != nil {
					return err
				}
				q, err := qf.query(d.cfg.Absensi.RowsPerPage)
				if err != nil {
					return err
				}
				ctx, cancel := d.timeout(ctx)
				defer cancel()
				if err := ops.list(ctx, cmd.OutOrStdout(), q); err != nil {
					return describeErr(err)
				}
				return nil
			})
		},
	}
	qf.bind(cmd, true)

	return cmd
}

func resourceNames() []string {
	rids := dao.ListResources()
	nn := make([]string, 0, len(rids))
	for _, rid := range rids {
		nn = append(nn, rid.Name)
	}
	return nn
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the statistics and the attendance of the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, d *deps) error {
				ctx, cancel := d.timeout(ctx)
				defer cancel()

				var (
					stats dao.Statistic
					today dao.Attendance
				)
				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() (err error) {
					stats, err = d.factory.Dashboard().Statistics(gctx)
					return err
				})
				g.Go(func() (err error) {
					today, err = d.factory.AttendanceActions().Today(gctx)
					return err
				})
				if err := g.Wait(); err != nil {
					return describeErr(err)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "Total Interns\t%d\n", stats.TotalInterns)
				fmt.Fprintf(tw, "Present Today\t%d\n", stats.PresentToday)
				fmt.Fprintf(tw, "Absent Today\t%d\n", stats.AbsentToday)
				fmt.Fprintf(tw, "On Leave\t%d\n", stats.OnLeave)
				fmt.Fprintln(tw)
				fmt.Fprintf(tw, "Status\t%s\n", render.StatusLabel(today.Status))
				fmt.Fprintf(tw, "Check In/Out\t%s\n", render.CheckInOut(today.CheckIn, today.CheckOut))
				if today.Reason != "" {
					fmt.Fprintf(tw, "Reason\t%s\n", today.Reason)
				}
				return tw.Flush()
			})
		},
	}
}

func newAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance",
		Aliases: []string{"absen"},
		Short:   "Record the attendance of the day",
	}

	type action func(ctx context.Context, aa *dao.AttendanceActions, reason string) (*api.Envelope[dao.Attendance], error)
	sub := func(use, short string, needsReason bool, fn action) *cobra.Command {
		var reason string
		c := &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd, func(ctx context.Context, d *deps) error {
					ctx, cancel := d.timeout(ctx)
					defer cancel()
					env, err := fn(ctx, d.factory.AttendanceActions(), reason)
					if err != nil {
						return describeErr(err)
					}
					a := env.Content
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", env.Message, render.StatusLabel(a.Status), render.CheckInOut(a.CheckIn, a.CheckOut))
					return nil
				})
			},
		}
		if needsReason {
			c.Flags().StringVar(&reason, "reason", "", "Reason of the request")
			_ = c.MarkFlagRequired("reason")
		}
		return c
	}

	cmd.AddCommand(
		sub("check-in", "Check in for today", false, func(ctx context.Context, aa *dao.AttendanceActions, _ string) (*api.Envelope[dao.Attendance], error) {
			return aa.CheckIn(ctx)
		}),
		sub("check-out", "Check out for today", false, func(ctx context.Context, aa *dao.AttendanceActions, _ string) (*api.Envelope[dao.Attendance], error) {
			return aa.CheckOut(ctx)
		}),
		sub("sick", "Report sick today", true, func(ctx context.Context, aa *dao.AttendanceActions, reason string) (*api.Envelope[dao.Attendance], error) {
			return aa.MarkSick(ctx, reason)
		}),
		sub("permit", "Request a permit for today", true, func(ctx context.Context, aa *dao.AttendanceActions, reason string) (*api.Envelope[dao.Attendance], error) {
			return aa.RequestPermit(ctx, reason)
		}),
	)

	return cmd
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <resource> <id>",
		Short: "Edit a record in $EDITOR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, d *deps) error {
				ops, err := opsFor(d.factory, d.aliases.Get(args[0]))
				if err != nil {
					return err
				}
				o, err := ops.update(ctx, args[1])
				switch {
				case errors.Is(err, view.ErrEditorCancelled), errors.Is(err, dao.ErrNoChanges):
					fmt.Fprintln(cmd.OutOrStdout(), err)
					return nil
				case err != nil:
					return describeErr(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s updated\n", args[0], o.GetName())
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		qf  queryFlags
		dir string
	)
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export every page of a resource to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, d *deps) error {
				ops, err := opsFor(d.factory, d.aliases.Get(args[0]))
				if err != nil {
					return err
				}
				q, err := qf.query(dao.DefaultExportRows)
				if err != nil {
					return err
				}
				tgt := d.target
				if dir != "" {
					tgt.Dir = dir
				}
				res, err := ops.export(ctx, q, tgt)
				if err != nil {
					return describeErr(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", res.Rows, res.Path)
				if res.URI != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to %s\n", res.URI)
				}
				return nil
			})
		},
	}
	qf.bind(cmd, false)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory")

	return cmd
}
