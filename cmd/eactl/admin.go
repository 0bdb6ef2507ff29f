package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"eadmin/internal/api"
	"eadmin/internal/modal"
	"eadmin/internal/models"
	"eadmin/internal/permissions"
	"eadmin/internal/reservation"
	"eadmin/internal/validation"
)

// lookupPageSize is the page size used when searching a listing for one record.
const lookupPageSize = 50

// findPaged walks the pages returned by load until match accepts an item.
func findPaged[T any](load func(page int) (models.Page[T], error), match func(T) bool) (T, error) {
	var zero T
	for page := 1; ; page++ {
		result, err := load(page)
		if err != nil {
			return zero, err
		}
		for _, item := range result.Content {
			if match(item) {
				return item, nil
			}
		}
		if len(result.Content) == 0 || page >= result.TotalOfPages {
			return zero, errNotFound
		}
	}
}

// findReservation looks the reservation up in the admin listing when the
// session may see it, and in the user's own reservations otherwise.
func (a *app) findReservation(ctx context.Context, id string) (models.Reservation, error) {
	ability, err := a.auth.Ability(ctx)
	if err != nil {
		return models.Reservation{}, err
	}

	load := func(page int) (models.Page[models.Reservation], error) {
		return a.reservations.ListMine(ctx, api.MyReservationsParams{
			PageParams: api.PageParams{Page: page, PageSize: lookupPageSize},
		})
	}
	if ability.Can(permissions.ActionShow, permissions.Of(permissions.SubjectReservation)) {
		load = func(page int) (models.Page[models.Reservation], error) {
			return a.reservations.List(ctx, api.FilterParams{
				PageParams: api.PageParams{Page: page, PageSize: lookupPageSize},
			})
		}
	}

	r, err := findPaged(load, func(r models.Reservation) bool { return r.ID == id })
	if err != nil {
		return r, fmt.Errorf("reservation %q: %w", id, err)
	}
	return r, nil
}

func (a *app) findSpace(ctx context.Context, id string) (models.AcademicSpace, error) {
	spaces, err := a.spaces.All(ctx)
	if err != nil {
		return models.AcademicSpace{}, err
	}
	for _, s := range spaces {
		if s.ID == id {
			return s, nil
		}
	}
	return models.AcademicSpace{}, fmt.Errorf("space %q: %w", id, errNotFound)
}

func (a *app) findUser(ctx context.Context, id string) (models.User, error) {
	u, err := findPaged(func(page int) (models.Page[models.User], error) {
		return a.users.List(ctx, api.PageParams{Page: page, PageSize: lookupPageSize})
	}, func(u models.User) bool { return u.ID == id })
	if err != nil {
		return u, fmt.Errorf("user %q: %w", id, err)
	}
	return u, nil
}

func (a *app) findSchool(ctx context.Context, id string) (models.School, error) {
	s, err := findPaged(func(page int) (models.Page[models.School], error) {
		return a.schools.List(ctx, api.SchoolParams{PageParams: api.PageParams{Page: page, PageSize: lookupPageSize}})
	}, func(s models.School) bool { return s.ID == id })
	if err != nil {
		return s, fmt.Errorf("school unit %q: %w", id, err)
	}
	return s, nil
}

func (a *app) updateReservation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-reservation", flag.ContinueOnError)
	id := fs.String("id", "", "reservation id")
	space := fs.String("space", "", "new academic space id")
	date := fs.String("date", "", "new day, YYYY-MM-DD")
	start := fs.String("start", "", "new start time, HH:MM")
	end := fs.String("end", "", "new end time, HH:MM")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := a.findReservation(ctx, *id)
	if err != nil {
		return err
	}

	var dialog modal.Modal[modal.UpdateReservation]
	dialog.Open(modal.UpdateReservationOf(current))
	defer dialog.Close()

	loc := a.cfg.Location()
	target, _ := dialog.Payload()
	fmt.Fprintf(a.out, "Editing %s: %s to %s\n", target.ID,
		target.StartDateTime.In(loc).Format("02/01/2006 15:04"),
		target.EndDateTime.In(loc).Format("15:04"))

	form := reservation.FormFromReservation(current, loc).Form
	if *space != "" {
		form.SpaceID = *space
	}
	if *date != "" {
		day, err := time.ParseInLocation(dateLayout, *date, loc)
		if err != nil {
			return validation.FieldErrors{{Field: reservation.FieldDate, Message: "Informe uma data válida"}}
		}
		form.Date = day
	}
	if *start != "" {
		form.StartTime = *start
	}
	if *end != "" {
		form.EndTime = *end
	}

	window, err := a.reservations.Update(ctx, current, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Moved to %s - %s\n", window.Start.Format("02/01/2006 15:04"), window.End.Format("15:04"))
	return nil
}

type spaceFlags struct {
	name, acronym, description *string
	capacity                   *int
}

func newSpaceFlags(fs *flag.FlagSet) spaceFlags {
	return spaceFlags{
		name:        fs.String("name", "", "room name"),
		acronym:     fs.String("acronym", "", "acronym"),
		description: fs.String("description", "", "description"),
		capacity:    fs.Int("capacity", 0, "capacity"),
	}
}

// apply overrides in with every flag that was given.
func (f spaceFlags) apply(in *api.SpaceInput) {
	if *f.name != "" {
		in.Name = *f.name
	}
	if *f.acronym != "" {
		in.Acronym = *f.acronym
	}
	if *f.description != "" {
		in.Description = *f.description
	}
	if *f.capacity != 0 {
		in.Capacity = *f.capacity
	}
}

func (a *app) createSpace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-space", flag.ContinueOnError)
	fields := newSpaceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var in api.SpaceInput
	fields.apply(&in)
	return a.spaces.Create(ctx, in)
}

func (a *app) editSpace(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit-space", flag.ContinueOnError)
	id := fs.String("id", "", "space id")
	fields := newSpaceFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	space, err := a.findSpace(ctx, *id)
	if err != nil {
		return err
	}
	in := api.SpaceInput{
		Name:        space.RoomName,
		Description: space.Description,
		Capacity:    space.Capacity,
		Acronym:     space.Acronym,
	}
	fields.apply(&in)
	return a.spaces.Update(ctx, space.ID, in)
}

func (a *app) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "e-mail")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "contact number, digits only")
	password := fs.String("password", "", "initial password")
	role := fs.String("role", models.RoleTeacher, "ADMIN or TEACHER")
	school := fs.String("school", "", "school unit id (teachers)")
	course := fs.String("course", "", "course (teachers)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.users.Create(ctx, api.CreateUserInput{
		Email:         *email,
		ContactNumber: *phone,
		Password:      *password,
		Name:          *name,
		Role:          strings.ToUpper(*role),
		SchoolUnitID:  *school,
		Course:        *course,
	})
}

func (a *app) editUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit-user", flag.ContinueOnError)
	id := fs.String("id", "", "user id")
	email := fs.String("email", "", "new e-mail")
	name := fs.String("name", "", "new name")
	role := fs.String("role", "", "new role, ADMIN or TEACHER")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.findUser(ctx, *id)
	if err != nil {
		return err
	}

	var dialog modal.Modal[modal.UpdateUser]
	dialog.Open(modal.UpdateUserOf(user))
	defer dialog.Close()

	target, _ := dialog.Payload()
	if *email != "" {
		target.Email = *email
	}
	if *name != "" {
		target.Name = *name
	}
	if *role != "" {
		target.Role = strings.ToUpper(*role)
	}
	return a.users.Update(ctx, api.UpdateUserInput{
		ID:    target.ID,
		Email: target.Email,
		Name:  target.Name,
		Role:  target.Role,
	})
}

func (a *app) deleteUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ContinueOnError)
	id := fs.String("id", "", "user id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.findUser(ctx, *id)
	if err != nil {
		return err
	}

	var dialog modal.Modal[modal.DeleteUser]
	dialog.Open(modal.DeleteUser{Name: user.Name, ID: user.ID})
	defer dialog.Close()

	target, _ := dialog.Payload()
	if !*yes && !a.confirmPrompt(fmt.Sprintf("O usuário %s será excluído. Continuar?", target.Name)) {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}
	return a.users.Delete(ctx, target.ID)
}

func (a *app) createSchool(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-school", flag.ContinueOnError)
	name := fs.String("name", "", "name")
	address := fs.String("address", "", "address")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state, two letters")
	phone := fs.String("phone", "", "contact number, digits only")
	kind := fs.String("type", models.SchoolPublic, "PUBLICA or PRIVADA")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.schools.Create(ctx, api.SchoolInput{
		Name:          *name,
		Address:       *address,
		City:          *city,
		State:         strings.ToUpper(*state),
		ContactNumber: *phone,
		Type:          strings.ToUpper(*kind),
	})
}

func (a *app) deleteSchool(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-school", flag.ContinueOnError)
	id := fs.String("id", "", "school unit id")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	school, err := a.findSchool(ctx, *id)
	if err != nil {
		return err
	}

	var dialog modal.Modal[modal.DeleteSchoolUnit]
	dialog.Open(modal.DeleteSchoolUnit{Name: school.Name, ID: school.ID})
	defer dialog.Close()

	target, _ := dialog.Payload()
	if !*yes && !a.confirmPrompt(fmt.Sprintf("A unidade %s será excluída. Continuar?", target.Name)) {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}
	return a.schools.Delete(ctx, target.ID)
}

func (a *app) schoolTeachers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("school-teachers", flag.ContinueOnError)
	id := fs.String("id", "", "school unit id")
	page := fs.Int("page", 1, "page")
	size := fs.Int("size", models.DefaultPageSize, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.schools.Teachers(ctx, *id, api.PageParams{Page: *page, PageSize: *size})
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNOME\tE-MAIL\tCURSO")
	for _, t := range result.Content {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Email, t.Course)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d\n", result.Page, result.TotalOfPages)
	return nil
}
