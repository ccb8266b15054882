package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/parkkwangkil/wbs-project/core/billing"
	"github.com/parkkwangkil/wbs-project/core/event"
	"github.com/parkkwangkil/wbs-project/core/project"
	"github.com/parkkwangkil/wbs-project/core/schedule"
	"github.com/parkkwangkil/wbs-project/core/user"
)

const demoPassword = "wbsdemo123"

// seedDemo loads a small demo data set: a manager, two members, a project
// with phases and a checklist, and a few calendar events. Re-running it
// on a seeded database is an error.
func (cli *commandLine) seedDemo() error {
	if _, err := cli.usrRepo.GetUserByUsername("demo.manager"); err == nil {
		return errors.New("demo data already loaded")
	} else if errors.Cause(err) != user.ErrNotFound {
		return err
	}

	manager, err := cli.seedUser("Demo Manager", "demo.manager", "manager@demo.local", user.ManagerRoles)
	if err != nil {
		return err
	}
	alice, err := cli.seedUser("Alice Demo", "demo.alice", "alice@demo.local", user.MemberRoles)
	if err != nil {
		return err
	}
	bob, err := cli.seedUser("Bob Demo", "demo.bob", "bob@demo.local", user.MemberRoles)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	today := schedule.DateOf(now)
	monthStart := schedule.Date(now.Year(), now.Month(), 1)

	proj, err := cli.projRepo.CreateProject(project.Project{
		Title:         "Website Redesign",
		Description:   "Relaunch of the marketing site.",
		ManagerID:     manager.ID,
		LeadID:        &alice.ID,
		TeamMemberIDs: []int{alice.ID, bob.ID},
		StartDate:     monthStart,
		EndDate:       monthStart.AddDate(0, 0, 27),
		Status:        project.StatusInProgress,
		Priority:      project.PriorityHigh,
		ColorTheme:    "teal",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return err
	}

	phases := []project.Phase{
		{ProjectID: proj.ID, Title: "Design", StartDate: monthStart, EndDate: monthStart.AddDate(0, 0, 9), Order: 0, IsCompleted: true, CreatedAt: now},
		{ProjectID: proj.ID, Title: "Build", StartDate: monthStart.AddDate(0, 0, 7), EndDate: monthStart.AddDate(0, 0, 20), Order: 1, CreatedAt: now},
		{ProjectID: proj.ID, Title: "Launch", StartDate: monthStart.AddDate(0, 0, 21), EndDate: monthStart.AddDate(0, 0, 27), Order: 2, CreatedAt: now},
	}
	for _, ph := range phases {
		if _, err := cli.projRepo.CreatePhase(ph); err != nil {
			return err
		}
	}

	checklist := []project.ChecklistItem{
		{ProjectID: proj.ID, Title: "Collect brand assets", Order: 0, IsCompleted: true, CreatedAt: now},
		{ProjectID: proj.ID, Title: "Approve wireframes", Order: 1, CreatedAt: now},
		{ProjectID: proj.ID, Title: "Set up staging", Order: 2, CreatedAt: now},
	}
	for _, ci := range checklist {
		if _, err := cli.projRepo.CreateChecklistItem(ci); err != nil {
			return err
		}
	}

	events := []event.Event{
		{OwnerID: manager.ID, Title: "Sprint planning", StartDate: today, EndDate: today,
			Type: event.TypeMeeting, Priority: event.PriorityHigh, CreatedAt: now, UpdatedAt: now},
		{OwnerID: manager.ID, Title: "Design review", StartDate: today.AddDate(0, 0, 2), EndDate: today.AddDate(0, 0, 2),
			Type: event.TypeMeeting, Priority: event.PriorityMedium, CreatedAt: now, UpdatedAt: now},
		{OwnerID: manager.ID, Title: "Content freeze", StartDate: today.AddDate(0, 0, 7), EndDate: today.AddDate(0, 0, 7),
			Type: event.TypeDeadline, Priority: event.PriorityHigh, CreatedAt: now, UpdatedAt: now},
	}
	for _, evt := range events {
		if _, err := cli.eventRepo.CreateEvent(evt); err != nil {
			return err
		}
	}

	// put the manager on the default plan
	plan, err := cli.billingRepo.GetDefaultPlan()
	if err != nil {
		return err
	}
	_, err = cli.billingRepo.CreateSubscription(billing.UserSubscription{
		UserID:    manager.ID,
		PlanID:    plan.ID,
		Period:    billing.PeriodMonthly,
		StartDate: today,
		EndDate:   today.AddDate(0, 0, 30),
		CreatedAt: now,
	})
	return err
}

func (cli *commandLine) seedUser(name, uname, email string, roles []string) (user.User, error) {
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  true,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(demoPassword); err != nil {
		return user.User{}, err
	}
	return cli.usrRepo.CreateUser(usr)
}
