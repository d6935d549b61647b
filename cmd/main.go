package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/collabhub-app/collabhub-client/pkg/auth"
	"github.com/collabhub-app/collabhub-client/pkg/calendar"
	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/environment"
	"github.com/collabhub-app/collabhub-client/pkg/equipment"
	"github.com/collabhub-app/collabhub-client/pkg/glossary"
	"github.com/collabhub-app/collabhub-client/pkg/locations"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
	"github.com/collabhub-app/collabhub-client/pkg/notifications"
	"github.com/collabhub-app/collabhub-client/pkg/poll"
	"github.com/collabhub-app/collabhub-client/pkg/projects"
	"github.com/collabhub-app/collabhub-client/pkg/tasks"
	"github.com/collabhub-app/collabhub-client/pkg/users"
)

type application struct {
	environment *environment.Environment
	logger      logger.Logger
	session     *auth.Session

	users     *users.UserService
	tasks     *tasks.TaskService
	equipment *equipment.EquipmentService
	events    *calendar.EventService
	projects  *projects.ProjectService
	locations *locations.LocationService
	glossary  *glossary.GlossaryService
	center    *notifications.Center
	remote    *notifications.RemoteService
}

// expiryPrinter tells the user to log in again when the backend rejects
// the stored token
type expiryPrinter struct{}

func (p *expiryPrinter) OnSessionExpired() {
	color.Yellow("Your session has expired, please log in again.")
}

func newApplication() (*application, error) {
	env, err := environment.Load(".env")
	if err != nil {
		return nil, err
	}

	logging := logger.Logger{Verbose: env.Verbose}

	err = os.MkdirAll(env.DataDir, 0o700)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(env.DataDir, logging)
	session.Subscribe(&expiryPrinter{})

	client := communication.NewClient(env.APIBaseURL, env.HTTPTimeout(), session, logging)

	cache, err := communication.NewListCache(16)
	if err != nil {
		return nil, err
	}

	app := &application{
		environment: env,
		logger:      logging,
		session:     session,
		users:       &users.UserService{Client: client, Session: session, Logger: logging},
		tasks:       tasks.NewTaskService(client, cache, logging),
		equipment:   equipment.NewEquipmentService(client, cache, logging),
		events:      &calendar.EventService{Client: client, Cache: cache, Logger: logging},
		projects:    projects.NewProjectService(client, cache, logging),
		locations:   &locations.LocationService{Client: client, Logger: logging},
		glossary:    &glossary.GlossaryService{Client: client, Cache: cache, Logger: logging},
		remote:      &notifications.RemoteService{Client: client, Logger: logging},
	}

	collector := &notifications.Collector{
		Tasks:    app.tasks,
		Events:   app.events,
		Bookings: app.equipment,
	}
	dismissed := notifications.NewDismissedStore(env.DataDir)
	app.center = notifications.NewCenter(collector, dismissed, &terminalSink{}, logging)

	return app, nil
}

// terminalSink prints newly generated notifications
type terminalSink struct{}

func (s *terminalSink) Publish(notification notifications.Notification) {
	switch notification.Level {
	case notifications.LevelUrgent:
		color.Red("! %s", notification.Message)
	case notifications.LevelWarning:
		color.Yellow("* %s", notification.Message)
	default:
		fmt.Println("- " + notification.Message)
	}
}

func prompt(label string) string {
	fmt.Print(label + ": ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func main() {
	app, err := newApplication()
	if err != nil {
		color.Red("startup failed: %v", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "collabhub",
		Short:         "Command line client for the IT engineering collaboration hub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		loginCommand(app),
		logoutCommand(app),
		whoamiCommand(app),
		tasksCommand(app),
		equipmentCommand(app),
		bookingsCommand(app),
		eventsCommand(app),
		projectsCommand(app),
		glossaryCommand(app),
		checkinCommand(app),
		checkoutCommand(app),
		watchCommand(app),
	)

	err = root.Execute()
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func loginCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Authenticate against the hub",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			} else {
				email = prompt("Email")
			}
			password := prompt("Password")

			user, err := app.users.Login(cmd.Context(), users.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			color.Green("Logged in as %s", user.DisplayName())
			return nil
		},
	}
}

func logoutCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.users.Logout(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func whoamiCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			credentials, ok := app.session.Credentials()
			if !ok {
				fmt.Println("Not logged in.")
				return nil
			}

			user, err := app.users.Me(cmd.Context())
			if err != nil {
				// Offline fallback to the stored identity
				fmt.Printf("%s <%s>\n", credentials.DisplayName, credentials.Email)
				return nil
			}

			fmt.Printf("%s <%s> (%s)\n", user.DisplayName(), user.Email, user.Department)
			return nil
		},
	}
}

func tasksCommand(app *application) *cobra.Command {
	command := &cobra.Command{
		Use:   "tasks",
		Short: "Work with tasks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			urgency, _ := cmd.Flags().GetString("urgency")
			project, _ := cmd.Flags().GetString("project")

			taskList, err := app.tasks.List(cmd.Context(), tasks.Filter{Status: status, Urgency: urgency, ProjectID: project})
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "TITLE", "URGENCY", "STATUS", "DEADLINE")
			for _, task := range taskList {
				deadline := ""
				if !task.Deadline.IsZero() {
					deadline = task.Deadline.Format("2006-01-02 15:04")
				}
				table.AddRow(task.ID, task.Title, task.Urgency, task.Status, deadline)
			}
			fmt.Println(table)
			return nil
		},
	}
	list.Flags().String("status", "", "filter by status")
	list.Flags().String("urgency", "", "filter by urgency")
	list.Flags().String("project", "", "filter by project id")

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			urgency, _ := cmd.Flags().GetString("urgency")
			department, _ := cmd.Flags().GetString("department")
			deadlineRaw, _ := cmd.Flags().GetString("deadline")

			deadline, err := parseDeadline(deadlineRaw)
			if err != nil {
				return err
			}

			task, err := app.tasks.Create(cmd.Context(), tasks.CreateRequest{
				Title:      args[0],
				Urgency:    urgency,
				Department: department,
				Deadline:   deadline,
			})
			if err != nil {
				return err
			}

			color.Green("Created task %s", task.ID)
			return nil
		},
	}
	add.Flags().String("urgency", tasks.UrgencyMedium, "urgent, high, medium or low")
	add.Flags().String("department", "", "owning department")
	add.Flags().String("deadline", "", "deadline, 2006-01-02 or 2006-01-02 15:04")

	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.tasks.SetStatus(cmd.Context(), args[0], tasks.StatusCompleted)
			if err != nil {
				return err
			}
			color.Green("Task %s completed", args[0])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.tasks.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Task %s deleted.\n", args[0])
			return nil
		},
	}

	command.AddCommand(list, add, done, remove)
	return command
}

func parseDeadline(raw string) (time.Time, error) {
	if raw == "" {
		// Default to end of today
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location()), nil
	}

	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		parsed, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse deadline %q", raw)
}

func equipmentCommand(app *application) *cobra.Command {
	command := &cobra.Command{
		Use:   "equipment",
		Short: "Work with equipment",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the equipment catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.equipment.ListEquipment(cmd.Context())
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "NAME", "CATEGORY", "LOCATION", "STATUS")
			for _, item := range catalog {
				table.AddRow(item.ID, item.Name, item.Category, item.Location, item.Status)
			}
			fmt.Println(table)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register new equipment in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, _ := cmd.Flags().GetString("category")
			location, _ := cmd.Flags().GetString("location")

			item, err := app.equipment.CreateEquipment(cmd.Context(), equipment.EquipmentRequest{
				Name:     args[0],
				Category: category,
				Location: location,
			})
			if err != nil {
				return err
			}

			color.Green("Registered %s as %s", item.Name, item.ID)
			return nil
		},
	}
	add.Flags().String("category", "", "equipment category")
	add.Flags().String("location", "", "where the equipment lives")

	command.AddCommand(list, add)
	return command
}

func bookingsCommand(app *application) *cobra.Command {
	command := &cobra.Command{
		Use:   "bookings",
		Short: "Work with equipment bookings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := app.equipment.MyBookings(cmd.Context())
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "EQUIPMENT", "FROM", "TO", "PURPOSE")
			for _, booking := range bookings {
				table.AddRow(booking.ID, booking.EquipmentName,
					booking.Period.Start.Format("2006-01-02"),
					booking.Period.End.Format("2006-01-02"),
					booking.Purpose)
			}
			fmt.Println(table)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <equipment-id> <start> <end> <purpose>",
		Short: "Book equipment for a date range",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.ParseInLocation("2006-01-02", args[1], time.Local)
			if err != nil {
				return fmt.Errorf("could not parse start date %q", args[1])
			}
			end, err := time.ParseInLocation("2006-01-02", args[2], time.Local)
			if err != nil {
				return fmt.Errorf("could not parse end date %q", args[2])
			}

			// The conflict check works over the known booking list
			_, err = app.equipment.RefreshBookings(cmd.Context())
			if err != nil {
				return err
			}

			booking, err := app.equipment.Book(cmd.Context(), equipment.BookingRequest{
				EquipmentID: args[0],
				StartDate:   start,
				EndDate:     end,
				Purpose:     args[3],
			})
			if err != nil {
				return err
			}

			color.Green("Booked %s from %s to %s", args[0],
				booking.Period.Start.Format("2006-01-02"),
				booking.Period.End.Format("2006-01-02"))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.equipment.RefreshBookings(cmd.Context())
			if err != nil {
				return err
			}

			err = app.equipment.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Booking %s cancelled.\n", args[0])
			return nil
		},
	}

	command.AddCommand(list, add, remove)
	return command
}

func eventsCommand(app *application) *cobra.Command {
	command := &cobra.Command{
		Use:   "events",
		Short: "Work with calendar events",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List upcoming events",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			now := time.Now()

			events, err := app.events.List(cmd.Context(), calendar.Filter{
				From: now,
				To:   now.AddDate(0, 0, days),
			})
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "TITLE", "TYPE", "STARTS", "LOCATION")
			for _, event := range events {
				table.AddRow(event.ID, event.Title, event.EventType,
					event.StartsAt.Format("2006-01-02 15:04"), event.Location)
			}
			fmt.Println(table)
			return nil
		},
	}
	list.Flags().Int("days", 7, "how many days to look ahead")

	add := &cobra.Command{
		Use:   "add <title> <date> <start-time>",
		Short: "Create an event",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventType, _ := cmd.Flags().GetString("type")
			location, _ := cmd.Flags().GetString("location")

			event, err := app.events.Create(cmd.Context(), calendar.CreateRequest{
				Title:     args[0],
				EventType: eventType,
				EventDate: args[1],
				StartTime: args[2],
				Location:  location,
			})
			if err != nil {
				return err
			}

			color.Green("Created event %s", event.ID)
			return nil
		},
	}
	add.Flags().String("type", "meeting", "event type")
	add.Flags().String("location", "", "where the event happens")

	command.AddCommand(list, add)
	return command
}

func projectsCommand(app *application) *cobra.Command {
	command := &cobra.Command{
		Use:   "projects",
		Short: "Work with projects",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectList, err := app.projects.List(cmd.Context())
			if err != nil {
				return err
			}

			table := uitable.New()
			table.AddRow("ID", "NAME", "STATUS", "DEPARTMENT", "LEAD")
			for _, project := range projectList {
				table.AddRow(project.ID, project.Name, project.Status, project.Department, project.LeadName)
			}
			fmt.Println(table)
			return nil
		},
	}

	command.AddCommand(list)
	return command
}

func glossaryCommand(app *application) *cobra.Command {
	command := &cobra.Command{
		Use:   "glossary",
		Short: "Work with the shared glossary",
	}

	list := &cobra.Command{
		Use:   "list [search]",
		Short: "List or search glossary terms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := ""
			if len(args) > 0 {
				search = args[0]
			}

			terms, err := app.glossary.List(cmd.Context(), search)
			if err != nil {
				return err
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.AddRow("TERM", "CATEGORY", "DEFINITION")
			for _, term := range terms {
				table.AddRow(term.Term, term.Category, term.Definition)
			}
			fmt.Println(table)
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the glossary to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = file.Close()
			}()

			err = app.glossary.Export(cmd.Context(), file)
			if err != nil {
				return err
			}
			color.Green("Exported to %s", args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import glossary terms from CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() {
				_ = file.Close()
			}()

			result, err := app.glossary.Import(cmd.Context(), file)
			if err != nil {
				return err
			}
			color.Green("Imported %d new terms, updated %d", result.Added, result.Updated)
			return nil
		},
	}

	command.AddCommand(list, export, importCmd)
	return command
}

func checkinCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <location> [note]",
		Short: "Check in at a location",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := ""
			if len(args) > 1 {
				note = args[1]
			}

			entry, err := app.locations.CheckIn(cmd.Context(), locations.CheckInRequest{
				Location: args[0],
				Note:     note,
			})
			if err != nil {
				return err
			}

			color.Green("Checked in at %s", entry.Location)
			return nil
		},
	}
}

func checkoutCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Close your active check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.locations.CheckOut(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println("Checked out.")
			return nil
		},
	}
}

func watchCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch for deadline, event and booking alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			app.center.Start(ctx, app.environment.NotifyRefreshPeriod())
			defer app.center.Stop()

			unreadChecker := poll.NewScheduler(app.environment.UnreadCheckPeriod(), func() {
				count, err := app.remote.UnreadCount(ctx)
				if err != nil {
					app.logger.Debug(fmt.Sprintf("unread check failed: %v", err))
					return
				}
				if count > 0 {
					color.Cyan("You have %d unread notifications on the hub", count)
				}
			}, app.logger)
			unreadChecker.Start()
			defer unreadChecker.Stop()

			fmt.Println("Watching, press Ctrl-C to stop.")

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			<-signals
			return nil
		},
	}
}
