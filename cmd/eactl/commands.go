package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"eadmin/internal/api"
	"eadmin/internal/export"
	"eadmin/internal/modal"
	"eadmin/internal/models"
	"eadmin/internal/reservation"
	"eadmin/internal/validation"
)

const dateLayout = "2006-01-02"

var errNotFound = errors.New("not found")

type command struct {
	name    string
	summary string
	run     func(a *app, ctx context.Context, args []string) error
}

var commands = []command{
	{"signin", "sign in with e-mail and password", (*app).signIn},
	{"signout", "end the current session", (*app).signOut},
	{"whoami", "show the signed-in user", (*app).whoAmI},
	{"spaces", "list academic spaces", (*app).listSpaces},
	{"create-space", "register an academic space (admin)", (*app).createSpace},
	{"edit-space", "change an academic space (admin)", (*app).editSpace},
	{"toggle-space", "switch a space between available and unavailable", (*app).toggleSpace},
	{"reserve", "book an academic space", (*app).reserve},
	{"update-reservation", "move a reservation to another space or time", (*app).updateReservation},
	{"my-reservations", "list your reservations", (*app).myReservations},
	{"reservations", "list every reservation (admin)", (*app).allReservations},
	{"cancel", "cancel a reservation (admin)", (*app).cancel},
	{"confirm", "confirm one of your reservations", (*app).confirm},
	{"users", "list users (admin)", (*app).listUsers},
	{"create-user", "register an administrator or a teacher (admin)", (*app).createUser},
	{"edit-user", "change a user (admin)", (*app).editUser},
	{"delete-user", "remove a user (admin)", (*app).deleteUser},
	{"schools", "list school units (admin)", (*app).listSchools},
	{"create-school", "register a school unit (admin)", (*app).createSchool},
	{"delete-school", "remove a school unit (admin)", (*app).deleteSchool},
	{"school-teachers", "list the teachers of a school unit (admin)", (*app).schoolTeachers},
	{"metrics", "show dashboard metrics (admin)", (*app).showMetrics},
	{"export", "export reservations or users to Excel (admin)", (*app).export},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: eactl <command> [flags]")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.summary)
	}
	_ = tw.Flush()
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	for _, c := range commands {
		if c.name == name {
			err := c.run(a, ctx, args)
			a.report(err)
			return err
		}
	}
	usage(os.Stderr)
	return fmt.Errorf("unknown command %q", name)
}

// report prints field errors the way forms show them.
func (a *app) report(err error) {
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		for _, e := range fe {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Field, e.Message)
		}
	}
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) signIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	email := fs.String("email", "", "e-mail")
	password := fs.String("password", os.Getenv("EADMIN_PASSWORD"), "password (defaults to $EADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", user.Name, export.RoleLabel(user.Role))
	return nil
}

func (a *app) signOut(ctx context.Context, _ []string) error {
	return a.auth.SignOut(ctx)
}

func (a *app) whoAmI(ctx context.Context, _ []string) error {
	user, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintf(tw, "ID\t%s\n", user.ID)
	fmt.Fprintf(tw, "Nome\t%s\n", user.Name)
	fmt.Fprintf(tw, "E-mail\t%s\n", user.Email)
	fmt.Fprintf(tw, "Perfil\t%s\n", export.RoleLabel(user.Role))
	if user.SchoolUnit != nil {
		fmt.Fprintf(tw, "Unidade\t%s\n", user.SchoolUnit.Name)
	}
	return tw.Flush()
}

func (a *app) listSpaces(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("spaces", flag.ContinueOnError)
	available := fs.Bool("available", false, "only spaces open for booking")
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", models.DefaultPageSize, "page size")
	column := fs.String("column", "", "filter column")
	value := fs.String("value", "", "filter value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var spaces []models.AcademicSpace
	if *available {
		list, err := a.spaces.ListAvailable(ctx)
		if err != nil {
			return err
		}
		spaces = list
	} else {
		result, err := a.spaces.List(ctx, api.FilterParams{
			PageParams:   api.PageParams{Page: *page, PageSize: *size},
			FilterColumn: *column,
			FilterValue:  *value,
		})
		if err != nil {
			return err
		}
		spaces = result.Content
		defer fmt.Fprintf(a.out, "page %d of %d\n", result.Page, result.TotalOfPages)
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tSIGLA\tNOME\tCAPACIDADE\tSTATUS")
	for _, s := range spaces {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.Acronym, s.RoomName, s.Capacity, s.Status)
	}
	return tw.Flush()
}

func (a *app) toggleSpace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("toggle-space", flag.ContinueOnError)
	id := fs.String("id", "", "space id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	space, err := a.findSpace(ctx, *id)
	if err != nil {
		return err
	}
	status, err := a.spaces.ToggleStatus(ctx, space)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is now %s\n", space.Label(), status)
	return nil
}

func (a *app) reserve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reserve", flag.ContinueOnError)
	space := fs.String("space", "", "academic space id")
	date := fs.String("date", "", "day, YYYY-MM-DD")
	start := fs.String("start", "", "start time, HH:MM")
	end := fs.String("end", "", "end time, HH:MM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := reservation.Form{SpaceID: *space, StartTime: *start, EndTime: *end}
	if *date != "" {
		day, err := time.ParseInLocation(dateLayout, *date, a.cfg.Location())
		if err != nil {
			return validation.FieldErrors{{Field: reservation.FieldDate, Message: "Informe uma data válida"}}
		}
		form.Date = day
	}

	window, err := a.reservations.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Reserved %s to %s\n", window.Start.Format("02/01/2006 15:04"), window.End.Format("15:04"))
	return nil
}

func (a *app) printReservations(page models.Page[models.Reservation]) error {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tESPAÇO\tUSUÁRIO\tINÍCIO\tFIM\tSTATUS")
	loc := a.cfg.Location()
	for _, r := range page.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.AcademicSpace.Label(),
			r.User.Name,
			r.StartDateTime.In(loc).Format("02/01/2006 15:04"),
			r.EndDateTime.In(loc).Format("15:04"),
			export.StatusLabel(r.Lifecycle()),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d\n", page.Page, page.TotalOfPages)
	return nil
}

func (a *app) myReservations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("my-reservations", flag.ContinueOnError)
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", models.DefaultPageSize, "page size")
	status := fs.String("status", "", "SCHEDULED, CONFIRMED_BY_THE_USER, CONFIRMED_BY_THE_ENTERPRISE or CANCELED")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.reservations.ListMine(ctx, api.MyReservationsParams{
		PageParams: api.PageParams{Page: *page, PageSize: *size},
		Status:     strings.ToUpper(*status),
	})
	if err != nil {
		return err
	}
	return a.printReservations(result)
}

func (a *app) allReservations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reservations", flag.ContinueOnError)
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", models.DefaultPageSize, "page size")
	column := fs.String("column", "", "filter column")
	value := fs.String("value", "", "filter value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.reservations.List(ctx, api.FilterParams{
		PageParams:   api.PageParams{Page: *page, PageSize: *size},
		FilterColumn: *column,
		FilterValue:  *value,
	})
	if err != nil {
		return err
	}
	return a.printReservations(result)
}

func (a *app) cancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	id := fs.String("id", "", "reservation id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var dialog modal.Modal[modal.CancelReservation]
	dialog.Open(modal.CancelReservation(*id))
	defer dialog.Close()

	if !*yes && !a.confirmPrompt("A reserva será cancelada. Continuar?") {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}

	target, _ := dialog.Payload()
	return a.reservations.Cancel(ctx, string(target))
}

func (a *app) confirm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("confirm", flag.ContinueOnError)
	id := fs.String("id", "", "reservation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.reservations.Confirm(ctx, *id)
}

func (a *app) confirmPrompt(question string) bool {
	fmt.Fprintf(a.out, "%s [s/N] ", question)
	answer, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}

func (a *app) listUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users", flag.ContinueOnError)
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", models.DefaultPageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.users.List(ctx, api.PageParams{Page: *page, PageSize: *size})
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNOME\tE-MAIL\tPERFIL")
	for _, u := range result.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, export.RoleLabel(u.Role))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d\n", result.Page, result.TotalOfPages)
	return nil
}

func (a *app) listSchools(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("schools", flag.ContinueOnError)
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", models.DefaultPageSize, "page size")
	search := fs.String("search", "", "name, city or address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.schools.List(ctx, api.SchoolParams{
		PageParams: api.PageParams{Page: *page, PageSize: *size},
		Search:     *search,
	})
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNOME\tCIDADE\tUF\tTIPO")
	for _, s := range result.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.City, s.State, s.Type)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d\n", result.Page, result.TotalOfPages)
	return nil
}

var weekdays = [7]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

func (a *app) showMetrics(ctx context.Context, _ []string) error {
	counts, err := a.metrics.Counts(ctx)
	if err != nil {
		return err
	}
	week, err := a.metrics.ByWeekday(ctx)
	if err != nil {
		return err
	}
	bySpace, err := a.metrics.BySpace(ctx)
	if err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintf(tw, "Reservas\t%d\n", counts.Reservations)
	fmt.Fprintf(tw, "Espaços acadêmicos\t%d\n", counts.AcademicSpaces)
	fmt.Fprintf(tw, "Usuários\t%d\n", counts.Users)
	fmt.Fprintln(tw)
	for _, d := range week {
		fmt.Fprintf(tw, "%s\t%d\n", weekdays[d.DayOfWeek], d.Count)
	}
	fmt.Fprintln(tw)
	for _, s := range bySpace {
		fmt.Fprintf(tw, "%s - %s\t%d\n", s.Acronym, s.RoomName, s.Count)
	}
	return tw.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	users := fs.Bool("users", false, "export users instead of reservations")
	from := fs.String("from", "", "first day, YYYY-MM-DD (default today)")
	to := fs.String("to", "", "last day, YYYY-MM-DD (default 7 days after from)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		path string
		err  error
	)
	if *users {
		path, err = a.exporter.Users(ctx, a.users)
	} else {
		loc := a.cfg.Location()
		start := time.Now().In(loc)
		if *from != "" {
			if start, err = time.ParseInLocation(dateLayout, *from, loc); err != nil {
				return fmt.Errorf("invalid -from: %w", err)
			}
		}
		end := start.AddDate(0, 0, 7)
		if *to != "" {
			if end, err = time.ParseInLocation(dateLayout, *to, loc); err != nil {
				return fmt.Errorf("invalid -to: %w", err)
			}
		}
		path, err = a.exporter.Reservations(ctx, a.reservations, start, end)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}
